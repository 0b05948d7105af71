package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"canchas-backend/internal/model"
)

var (
	ErrFieldNotFound  = errors.New("cancha not found")
	ErrSlotNotFound   = errors.New("turno not found")
	ErrStatusConflict = errors.New("turno status changed")
	ErrUsernameTaken  = errors.New("usuario already in use")
)

// Store defines the interface for all database operations.
//
// The slot transitions take an optional list of accepted prior statuses. With
// none given the update is unconditional and the last write wins. Otherwise the
// row is only updated while its status is one of them, and ErrStatusConflict is
// returned when the slot exists in some other status.
type Store interface {
	ListFields(ctx context.Context) ([]model.Field, error)
	GetField(ctx context.Context, id int64) (*model.Field, error)
	FieldByUsername(ctx context.Context, username string) (*model.Field, error)
	CreateField(ctx context.Context, field *model.Field) error
	UpdateCredentials(ctx context.Context, fieldID int64, username, passwordHash string) error

	ListSlots(ctx context.Context) ([]model.Slot, error)
	ListSlotsByField(ctx context.Context, fieldID int64) ([]model.Slot, error)
	GetSlot(ctx context.Context, id int64) (*model.Slot, error)
	CreateSlot(ctx context.Context, slot *model.Slot) error
	CreateSlots(ctx context.Context, slots []model.Slot) ([]model.Slot, error)
	RequestBooking(ctx context.Context, id int64, customer model.Customer, from ...model.SlotStatus) error
	ConfirmSlot(ctx context.Context, id int64, from ...model.SlotStatus) error
	ReleaseSlot(ctx context.Context, id int64, from ...model.SlotStatus) error
	DeleteSlot(ctx context.Context, id int64, from ...model.SlotStatus) error

	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForField(ctx context.Context, fieldID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}
