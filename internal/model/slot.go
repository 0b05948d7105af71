package model

import "time"

// SlotStatus is the lifecycle state of a slot.
type SlotStatus string

const (
	StatusAvailable SlotStatus = "disponible"
	StatusPending   SlotStatus = "pendiente"
	StatusConfirmed SlotStatus = "reservado"
)

// Valid reports whether s is one of the known statuses.
func (s SlotStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusConfirmed:
		return true
	}
	return false
}

// Prior statuses accepted by each transition when strict transitions are enabled.
var (
	BookFrom    = []SlotStatus{StatusAvailable}
	ConfirmFrom = []SlotStatus{StatusPending}
	ReleaseFrom = []SlotStatus{StatusPending, StatusConfirmed}
	DeleteFrom  = []SlotStatus{StatusAvailable}
)

// Slot is one bookable date+time unit of a field ("turno").
// Customer fields are set if and only if Status is not StatusAvailable.
type Slot struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	FieldID    int64      `gorm:"column:cancha_id;index;not null" json:"cancha_id"`
	Date       string     `gorm:"column:fecha;size:10;index;not null" json:"fecha"` // YYYY-MM-DD
	Time       string     `gorm:"column:hora;size:5;not null" json:"hora"`          // HH:MM
	Status     SlotStatus `gorm:"column:estado;size:16;not null;index" json:"estado"`
	Name       *string    `gorm:"column:nombre;size:128" json:"nombre"`
	Phone      *string    `gorm:"column:telefono;size:32" json:"telefono"`
	NationalID *string    `gorm:"column:dni;size:32" json:"dni"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`

	// Associations
	Field *Field `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the table name used by the existing deployments.
func (Slot) TableName() string { return "turnos_canchas" }

// Customer holds the data a customer submits when requesting a slot.
type Customer struct {
	Name       string
	Phone      string
	NationalID string
}
