package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"canchas-backend/internal/model"
)

func (s *gormStore) ListFields(ctx context.Context) ([]model.Field, error) {
	var fields []model.Field
	if err := s.db.WithContext(ctx).Order("id").Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("list canchas: %w", err)
	}
	return fields, nil
}

func (s *gormStore) GetField(ctx context.Context, id int64) (*model.Field, error) {
	var field model.Field
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, fmt.Errorf("get cancha %d: %w", id, err)
	}
	return &field, nil
}

func (s *gormStore) FieldByUsername(ctx context.Context, username string) (*model.Field, error) {
	var field model.Field
	if err := s.db.WithContext(ctx).Where("usuario = ?", username).First(&field).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, fmt.Errorf("get cancha by usuario: %w", err)
	}
	return &field, nil
}

// CreateField provisions a new field. The password must already be hashed.
func (s *gormStore) CreateField(ctx context.Context, field *model.Field) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := usernameFree(tx, field.Username, 0); err != nil {
			return err
		}
		if err := tx.Create(field).Error; err != nil {
			return fmt.Errorf("create cancha: %w", err)
		}
		return nil
	})
}

// UpdateCredentials replaces the owner username and password hash of a field.
func (s *gormStore) UpdateCredentials(ctx context.Context, fieldID int64, username, passwordHash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := usernameFree(tx, username, fieldID); err != nil {
			return err
		}
		res := tx.Model(&model.Field{}).Where("id = ?", fieldID).Updates(map[string]interface{}{
			"usuario":    username,
			"contrasena": passwordHash,
		})
		if res.Error != nil {
			return fmt.Errorf("update credentials of cancha %d: %w", fieldID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrFieldNotFound
		}
		return nil
	})
}

// usernameFree fails with ErrUsernameTaken when a field other than exceptID uses username.
func usernameFree(tx *gorm.DB, username string, exceptID int64) error {
	var count int64
	q := tx.Model(&model.Field{}).Where("usuario = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check usuario: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	return nil
}
