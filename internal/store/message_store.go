package store

import (
	"context"
	"time"

	"recomm/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageStore struct{ db *gorm.DB }

func (s *Store) Messages() *MessageStore { return &MessageStore{db: s.DB} }

func (m *MessageStore) Create(ctx context.Context, msg *domain.Message) error {
	return m.db.WithContext(ctx).Create(msg).Error
}

// ByReceiver returns messages addressed to receiverID (a group id for GROUP
// traffic) with sentAt >= since, newest first, paginated by offset/limit.
func (m *MessageStore) ByReceiver(ctx context.Context, receiverID uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error) {
	var msgs []domain.Message
	err := m.paginate(
		m.db.WithContext(ctx).
			Where("receiver_id = ? AND sent_at >= ?", receiverID, since),
		limit, offset,
	).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Private returns the PRIVATE messages between the two users in either
// direction, so both orientations land in one logical thread.
func (m *MessageStore) Private(ctx context.Context, a, b uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error) {
	var msgs []domain.Message
	err := m.paginate(
		m.db.WithContext(ctx).
			Where("type = ? AND sent_at >= ?", domain.MessagePrivate, since).
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a),
		limit, offset,
	).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (m *MessageStore) paginate(tx *gorm.DB, limit, offset int) *gorm.DB {
	tx = tx.Order("sent_at desc")
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return tx
}
