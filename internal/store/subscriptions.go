package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"canchas-backend/internal/model"
)

// SaveSubscription creates the subscription or moves an existing endpoint to
// the given field with fresh keys.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "cancha_id"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *gormStore) SubscriptionsForField(ctx context.Context, fieldID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("cancha_id = ?", fieldID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("subscriptions of cancha %d: %w", fieldID, err)
	}
	return subs, nil
}
