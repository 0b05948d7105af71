package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/calendar"
	"canchas-backend/internal/model"
	"canchas-backend/internal/notification"
	"canchas-backend/internal/whatsapp"
)

// ListSlots returns every slot of every field.
func (h *Handler) ListSlots(c *gin.Context) {
	slots, err := h.store.ListSlots(c.Request.Context())
	if err != nil {
		abortWithStoreError(c, err, "Error al obtener turnos")
		return
	}
	c.JSON(http.StatusOK, nonNilSlots(slots))
}

// ListSlotsByField returns the slots of the field given by the id query parameter.
func (h *Handler) ListSlotsByField(c *gin.Context) {
	fieldID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || fieldID <= 0 {
		badRequest(c, "ID de cancha inválido")
		return
	}

	slots, err := h.store.ListSlotsByField(c.Request.Context(), fieldID)
	if err != nil {
		abortWithStoreError(c, err, "Error al filtrar turnos")
		return
	}
	c.JSON(http.StatusOK, nonNilSlots(slots))
}

type createSlotRequest struct {
	Date    string `json:"fecha"`
	Time    string `json:"hora"`
	FieldID int64  `json:"cancha_id"`
	Status  string `json:"estado"`
}

// newSlot validates the submitted date, time and status. An empty date means
// today and an empty status means available.
func (h *Handler) newSlot(fieldID int64, date, hhmm, status string) (model.Slot, string) {
	if strings.TrimSpace(date) == "" {
		date = h.today()
	} else {
		d, err := calendar.NormalizeDate(date)
		if err != nil {
			return model.Slot{}, "Fecha inválida, usá AAAA-MM-DD"
		}
		date = d
	}

	t, err := calendar.NormalizeTime(hhmm)
	if err != nil {
		return model.Slot{}, "Hora inválida, usá HH:MM"
	}

	st := model.SlotStatus(status)
	if st == "" {
		st = model.StatusAvailable
	}
	if st != model.StatusAvailable {
		return model.Slot{}, "Los turnos nuevos se crean como disponibles"
	}

	return model.Slot{FieldID: fieldID, Date: date, Time: t, Status: st}, ""
}

// CreateSlot creates a single slot.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	fieldID, ok := h.authorizeField(c, req.FieldID)
	if !ok {
		return
	}

	slot, msg := h.newSlot(fieldID, req.Date, req.Time, req.Status)
	if msg != "" {
		badRequest(c, msg)
		return
	}

	if err := h.store.CreateSlot(c.Request.Context(), &slot); err != nil {
		abortWithStoreError(c, err, "Error al crear turno")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Turno creado", "id": slot.ID})
}

type createSlotBatchRequest struct {
	Date    string   `json:"fecha"`
	FieldID int64    `json:"cancha_id"`
	Times   []string `json:"horas" binding:"required,min=1"`
}

// CreateSlotBatch creates several slots of one day, all or none.
func (h *Handler) CreateSlotBatch(c *gin.Context) {
	var req createSlotBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	fieldID, ok := h.authorizeField(c, req.FieldID)
	if !ok {
		return
	}

	slots := make([]model.Slot, 0, len(req.Times))
	for _, hhmm := range req.Times {
		slot, msg := h.newSlot(fieldID, req.Date, hhmm, "")
		if msg != "" {
			badRequest(c, msg)
			return
		}
		slots = append(slots, slot)
	}

	created, err := h.store.CreateSlots(c.Request.Context(), slots)
	if err != nil {
		abortWithStoreError(c, err, "Error al crear turnos")
		return
	}

	ids := make([]int64, len(created))
	for i, s := range created {
		ids[i] = s.ID
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Turnos creados", "ids": ids})
}

type bookSlotRequest struct {
	Name       string `json:"nombre" binding:"required"`
	Phone      string `json:"telefono" binding:"required"`
	NationalID string `json:"dni" binding:"required"`
}

// BookSlot records a customer's booking request and moves the slot to pending.
func (h *Handler) BookSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req bookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "nombre, telefono y dni son obligatorios")
		return
	}
	customer := model.Customer{
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		NationalID: strings.TrimSpace(req.NationalID),
	}
	if customer.Name == "" || customer.Phone == "" || customer.NationalID == "" {
		badRequest(c, "nombre, telefono y dni son obligatorios")
		return
	}

	ctx := c.Request.Context()
	if err := h.store.RequestBooking(ctx, id, customer, h.prior(model.BookFrom)...); err != nil {
		abortWithStoreError(c, err, "Error al reservar turno")
		return
	}

	resp := gin.H{"mensaje": "Turno reservado correctamente"}

	slot, err := h.store.GetSlot(ctx, id)
	if err != nil {
		log.Printf("booking %d saved but reloading it failed: %v", id, err)
		c.JSON(http.StatusOK, resp)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(notification.BookingNotice{
			FieldID:      slot.FieldID,
			SlotID:       slot.ID,
			Date:         slot.Date,
			Time:         slot.Time,
			CustomerName: customer.Name,
		})
	}

	if field, err := h.store.GetField(ctx, slot.FieldID); err != nil {
		log.Printf("booking %d saved but loading cancha %d failed: %v", id, slot.FieldID, err)
	} else if link := whatsapp.Link(field.Phone, whatsapp.BookingRequestMessage(*field, *slot, customer, h.loginURL), h.prefix); link != "" {
		resp["whatsapp"] = link
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmSlot marks a slot as confirmed by its owner.
func (h *Handler) ConfirmSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !h.authorizeSlot(c, id) {
		return
	}

	if err := h.store.ConfirmSlot(c.Request.Context(), id, h.prior(model.ConfirmFrom)...); err != nil {
		abortWithStoreError(c, err, "Error al reservar turno")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Turno reservado correctamente"})
}

// ReleaseSlot makes a slot available again and clears its customer data.
func (h *Handler) ReleaseSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !h.authorizeSlot(c, id) {
		return
	}

	if err := h.store.ReleaseSlot(c.Request.Context(), id, h.prior(model.ReleaseFrom)...); err != nil {
		abortWithStoreError(c, err, "Error al liberar turno")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Turno liberado correctamente"})
}

// DeleteSlot removes a slot.
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || !h.authorizeSlot(c, id) {
		return
	}

	if err := h.store.DeleteSlot(c.Request.Context(), id, h.prior(model.DeleteFrom)...); err != nil {
		abortWithStoreError(c, err, "Error al eliminar turno")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Turno eliminado correctamente"})
}
