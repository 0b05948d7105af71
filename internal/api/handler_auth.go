package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/auth"
	"canchas-backend/internal/store"
)

type loginRequest struct {
	Username string `json:"usuario" binding:"required"`
	Password string `json:"contrasena" binding:"required"`
}

// Login checks an owner's credentials and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "usuario y contrasena son obligatorios")
		return
	}

	field, err := h.store.FieldByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, store.ErrFieldNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Usuario o contraseña incorrectos"})
			return
		}
		abortWithStoreError(c, err, "Error al iniciar sesión")
		return
	}
	if err := auth.CheckPassword(field.PasswordHash, req.Password); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Usuario o contraseña incorrectos"})
		return
	}

	token, expires, err := h.issuer.Issue(field.ID, field.Username)
	if err != nil {
		abortWithStoreError(c, err, "Error al iniciar sesión")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expira": expires,
		"cancha": field,
	})
}
