package domain

import (
	"time"

	"github.com/google/uuid"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipRejected FriendshipStatus = "REJECTED"
)

// Friendship is one directional request row. The ordered pair is the key; a
// reverse pair is a distinct row. Rows are never deleted, only their status
// moves PENDING -> ACCEPTED|REJECTED.
type Friendship struct {
	RequesterID uuid.UUID        `gorm:"type:uuid;primaryKey"`
	AddresseeID uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Status      FriendshipStatus `gorm:"not null"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

func (Friendship) TableName() string { return "friendships" }
