package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"canchas-backend/internal/model"
)

func (s *gormStore) ListSlots(ctx context.Context) ([]model.Slot, error) {
	var slots []model.Slot
	if err := s.db.WithContext(ctx).Order("id").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list turnos: %w", err)
	}
	return slots, nil
}

func (s *gormStore) ListSlotsByField(ctx context.Context, fieldID int64) ([]model.Slot, error) {
	var slots []model.Slot
	if err := s.db.WithContext(ctx).Where("cancha_id = ?", fieldID).Order("id").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list turnos of cancha %d: %w", fieldID, err)
	}
	return slots, nil
}

func (s *gormStore) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	var slot model.Slot
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("get turno %d: %w", id, err)
	}
	return &slot, nil
}

// CreateSlot inserts a single slot. It fails with ErrFieldNotFound when the
// referenced field does not exist.
func (s *gormStore) CreateSlot(ctx context.Context, slot *model.Slot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fieldExists(tx, slot.FieldID); err != nil {
			return err
		}
		if err := tx.Create(slot).Error; err != nil {
			return fmt.Errorf("create turno: %w", err)
		}
		return nil
	})
}

// CreateSlots inserts a batch of slots in one transaction: either all of them
// are persisted or none is.
func (s *gormStore) CreateSlots(ctx context.Context, slots []model.Slot) ([]model.Slot, error) {
	if len(slots) == 0 {
		return nil, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		checked := make(map[int64]bool)
		for _, slot := range slots {
			if checked[slot.FieldID] {
				continue
			}
			if err := fieldExists(tx, slot.FieldID); err != nil {
				return err
			}
			checked[slot.FieldID] = true
		}
		if err := tx.Create(&slots).Error; err != nil {
			return fmt.Errorf("batch create turnos: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *gormStore) RequestBooking(ctx context.Context, id int64, customer model.Customer, from ...model.SlotStatus) error {
	return s.transition(ctx, id, from, map[string]interface{}{
		"estado":   model.StatusPending,
		"nombre":   customer.Name,
		"telefono": customer.Phone,
		"dni":      customer.NationalID,
	})
}

func (s *gormStore) ConfirmSlot(ctx context.Context, id int64, from ...model.SlotStatus) error {
	return s.transition(ctx, id, from, map[string]interface{}{
		"estado": model.StatusConfirmed,
	})
}

// ReleaseSlot makes the slot available again and clears the customer data.
func (s *gormStore) ReleaseSlot(ctx context.Context, id int64, from ...model.SlotStatus) error {
	return s.transition(ctx, id, from, map[string]interface{}{
		"estado":   model.StatusAvailable,
		"nombre":   nil,
		"telefono": nil,
		"dni":      nil,
	})
}

func (s *gormStore) DeleteSlot(ctx context.Context, id int64, from ...model.SlotStatus) error {
	res := withPriorStatus(s.db.WithContext(ctx).Where("id = ?", id), from).Delete(&model.Slot{})
	if res.Error != nil {
		return fmt.Errorf("delete turno %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missReason(ctx, id)
	}
	return nil
}

// transition applies values to the slot, guarded by the accepted prior statuses.
func (s *gormStore) transition(ctx context.Context, id int64, from []model.SlotStatus, values map[string]interface{}) error {
	q := s.db.WithContext(ctx).Model(&model.Slot{}).Where("id = ?", id)
	res := withPriorStatus(q, from).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update turno %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missReason(ctx, id)
	}
	return nil
}

// missReason tells apart a missing slot from one whose status did not match.
func (s *gormStore) missReason(ctx context.Context, id int64) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Slot{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check turno %d: %w", id, err)
	}
	if count == 0 {
		return ErrSlotNotFound
	}
	return ErrStatusConflict
}

func withPriorStatus(q *gorm.DB, from []model.SlotStatus) *gorm.DB {
	if len(from) == 0 {
		return q
	}
	statuses := make([]string, len(from))
	for i, st := range from {
		statuses[i] = string(st)
	}
	return q.Where("estado IN ?", statuses)
}

func fieldExists(tx *gorm.DB, fieldID int64) error {
	var count int64
	if err := tx.Model(&model.Field{}).Where("id = ?", fieldID).Count(&count).Error; err != nil {
		return fmt.Errorf("check cancha %d: %w", fieldID, err)
	}
	if count == 0 {
		return ErrFieldNotFound
	}
	return nil
}
