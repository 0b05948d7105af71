package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/model"
	"canchas-backend/internal/mw"
	"canchas-backend/internal/store"
)

// abortWithStoreError maps a store error to its HTTP response. Unexpected
// errors are logged and answered with the generic message.
func abortWithStoreError(c *gin.Context, err error, generic string) {
	switch {
	case errors.Is(err, store.ErrSlotNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Turno no encontrado"})
	case errors.Is(err, store.ErrFieldNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Cancha no encontrada"})
	case errors.Is(err, store.ErrStatusConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "El turno cambió de estado, actualizá la lista"})
	case errors.Is(err, store.ErrUsernameTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "El nombre de usuario ya está en uso"})
	default:
		log.Printf("%s: %v", generic, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID parses the :id path parameter. Zero and negative ids are passed on
// so that the lookup answers 404 for them like for any other unknown id.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "ID inválido")
		return 0, false
	}
	return id, true
}

// authorizeSlot checks that the authenticated owner manages the slot. When
// the owner routes are open and no token was sent, every slot is allowed.
func (h *Handler) authorizeSlot(c *gin.Context, slotID int64) bool {
	fieldID, ok := mw.OwnerFieldID(c)
	if !ok {
		if h.open {
			return true
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Falta el token de sesión"})
		return false
	}

	slot, err := h.store.GetSlot(c.Request.Context(), slotID)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener turno")
		return false
	}
	if slot.FieldID != fieldID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "El turno pertenece a otra cancha"})
		return false
	}
	return true
}

// authorizeField resolves the field a slot is created for. An authenticated
// owner may omit requested and may only name its own field.
func (h *Handler) authorizeField(c *gin.Context, requested int64) (int64, bool) {
	fieldID, ok := mw.OwnerFieldID(c)
	if !ok {
		if !h.open {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Falta el token de sesión"})
			return 0, false
		}
		if requested <= 0 {
			badRequest(c, "cancha_id es obligatorio")
			return 0, false
		}
		return requested, true
	}
	if requested != 0 && requested != fieldID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No podés crear turnos en otra cancha"})
		return 0, false
	}
	return fieldID, true
}

func nonNilSlots(slots []model.Slot) []model.Slot {
	if slots == nil {
		return []model.Slot{}
	}
	return slots
}
