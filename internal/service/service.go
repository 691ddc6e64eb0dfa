// Package service holds the domain engines: identity, friendship, groups,
// messaging and notification delivery. Engines talk to persistence through
// the narrow store interfaces below and are wired at the composition root.
package service

import (
	"context"
	"time"

	"recomm/internal/domain"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type FriendshipStore interface {
	Save(ctx context.Context, fr *domain.Friendship) error
	Find(ctx context.Context, requesterID, addresseeID uuid.UUID) (*domain.Friendship, error)
	UpdateStatus(ctx context.Context, requesterID, addresseeID uuid.UUID, status domain.FriendshipStatus, at time.Time) error
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	Friends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	PendingFor(ctx context.Context, userID uuid.UUID) ([]domain.Friendship, error)
}

type GroupStore interface {
	Create(ctx context.Context, grp *domain.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID, at time.Time) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID, at time.Time) error
	UpdateName(ctx context.Context, groupID uuid.UUID, name string, at time.Time) error
	Delete(ctx context.Context, groupID uuid.UUID) error
	GetByMember(ctx context.Context, userID uuid.UUID) ([]domain.Group, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *domain.Message) error
	ByReceiver(ctx context.Context, receiverID uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error)
	Private(ctx context.Context, a, b uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error)
}

type NotificationStore interface {
	Save(ctx context.Context, pn *domain.PendingNotification) error
	PendingFor(ctx context.Context, userID uuid.UUID) ([]domain.PendingNotification, error)
	ClearFor(ctx context.Context, userID uuid.UUID) error
}

// LiveSender is the connection registry as seen by the notification engine.
type LiveSender interface {
	Send(userID uuid.UUID, payload []byte) bool
	IsConnected(userID uuid.UUID) bool
}
