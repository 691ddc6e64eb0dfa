package store

import (
	"context"
	"errors"
	"time"

	"recomm/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipStore struct{ db *gorm.DB }

func (s *Store) Friendships() *FriendshipStore { return &FriendshipStore{db: s.DB} }

func (f *FriendshipStore) Save(ctx context.Context, fr *domain.Friendship) error {
	return f.db.WithContext(ctx).Create(fr).Error
}

// Find looks up the ordered row (requester, addressee). The reverse pair is a
// distinct row and is not matched.
func (f *FriendshipStore) Find(ctx context.Context, requesterID, addresseeID uuid.UUID) (*domain.Friendship, error) {
	var fr domain.Friendship
	err := f.db.WithContext(ctx).
		First(&fr, "requester_id = ? AND addressee_id = ?", requesterID, addresseeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &fr, nil
}

func (f *FriendshipStore) UpdateStatus(ctx context.Context, requesterID, addresseeID uuid.UUID, status domain.FriendshipStatus, at time.Time) error {
	res := f.db.WithContext(ctx).Model(&domain.Friendship{}).
		Where("requester_id = ? AND addressee_id = ?", requesterID, addresseeID).
		Updates(map[string]any{"status": status, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// AreFriends reports whether any row between the two users, in either
// direction, is ACCEPTED.
func (f *FriendshipStore) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := f.db.WithContext(ctx).Model(&domain.Friendship{}).
		Where("status = ?", domain.FriendshipAccepted).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Friends returns the counterpart ids of all ACCEPTED rows touching userID in
// either position.
func (f *FriendshipStore) Friends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var rows []domain.Friendship
	err := f.db.WithContext(ctx).
		Where("status = ?", domain.FriendshipAccepted).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	friends := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if r.RequesterID == userID {
			friends = append(friends, r.AddresseeID)
		} else {
			friends = append(friends, r.RequesterID)
		}
	}
	return friends, nil
}

func (f *FriendshipStore) PendingFor(ctx context.Context, userID uuid.UUID) ([]domain.Friendship, error) {
	var rows []domain.Friendship
	err := f.db.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userID, domain.FriendshipPending).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
