package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/auth"
	"canchas-backend/internal/mw"
)

// GetAccount returns the field of the authenticated owner.
func (h *Handler) GetAccount(c *gin.Context) {
	fieldID, _ := mw.OwnerFieldID(c)
	field, err := h.store.GetField(c.Request.Context(), fieldID)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener la cuenta")
		return
	}
	c.JSON(http.StatusOK, field)
}

type updateCredentialsRequest struct {
	Username        string `json:"usuario"`
	NewPassword     string `json:"nueva_contrasena"`
	ConfirmPassword string `json:"confirmar_contrasena"`
}

// validate applies the account form rules and returns the first violation.
func (r updateCredentialsRequest) validate() string {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return "El nombre de usuario es obligatorio"
	case len(r.NewPassword) < auth.MinPasswordLength:
		return "La contraseña debe tener al menos 6 caracteres"
	case r.NewPassword != r.ConfirmPassword:
		return "Las contraseñas no coinciden"
	}
	return ""
}

// UpdateCredentials changes the owner's username and password.
func (h *Handler) UpdateCredentials(c *gin.Context) {
	var req updateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(c, msg)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		abortWithStoreError(c, err, "Error al actualizar la cuenta")
		return
	}

	fieldID, _ := mw.OwnerFieldID(c)
	if err := h.store.UpdateCredentials(c.Request.Context(), fieldID, strings.TrimSpace(req.Username), hash); err != nil {
		abortWithStoreError(c, err, "Error al actualizar la cuenta")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Datos actualizados correctamente"})
}
