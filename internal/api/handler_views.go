package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/mw"
	"canchas-backend/internal/view"
)

// FieldDirectory lists the fields matching ?q= with their free slots for today.
func (h *Handler) FieldDirectory(c *gin.Context) {
	ctx := c.Request.Context()
	fields, err := h.store.ListFields(ctx)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener canchas")
		return
	}
	slots, err := h.store.ListSlots(ctx)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener turnos")
		return
	}
	c.JSON(http.StatusOK, view.Directory(fields, slots, h.today(), c.Query("q")))
}

// FieldToday returns today's slots of a field, midnight last.
func (h *Handler) FieldToday(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	field, err := h.store.GetField(ctx, id)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener cancha")
		return
	}
	slots, err := h.store.ListSlotsByField(ctx, id)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener turnos")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cancha": field,
		"fecha":  h.today(),
		"turnos": view.TodayPicker(slots, h.today()),
	})
}

// OwnerAgenda returns the owner's slots grouped by day.
func (h *Handler) OwnerAgenda(c *gin.Context) {
	fieldID, _ := mw.OwnerFieldID(c)
	slots, err := h.store.ListSlotsByField(c.Request.Context(), fieldID)
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener turnos")
		return
	}
	c.JSON(http.StatusOK, view.Agenda(slots))
}
