package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/model"
)

// ListFields returns every field.
func (h *Handler) ListFields(c *gin.Context) {
	fields, err := h.store.ListFields(c.Request.Context())
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener canchas")
		return
	}
	if fields == nil {
		fields = []model.Field{}
	}
	c.JSON(http.StatusOK, fields)
}
