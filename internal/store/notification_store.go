package store

import (
	"context"

	"recomm/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationStore struct{ db *gorm.DB }

func (s *Store) Notifications() *NotificationStore { return &NotificationStore{db: s.DB} }

func (n *NotificationStore) Save(ctx context.Context, pn *domain.PendingNotification) error {
	if pn.ID == uuid.Nil {
		pn.ID = uuid.New()
	}
	return n.db.WithContext(ctx).Create(pn).Error
}

func (n *NotificationStore) PendingFor(ctx context.Context, userID uuid.UUID) ([]domain.PendingNotification, error) {
	var rows []domain.PendingNotification
	err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (n *NotificationStore) ClearFor(ctx context.Context, userID uuid.UUID) error {
	return n.db.WithContext(ctx).
		Delete(&domain.PendingNotification{}, "user_id = ?", userID).Error
}
