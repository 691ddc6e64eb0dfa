package domain

import (
	"time"

	"recomm/internal/rawjson"

	"github.com/google/uuid"
)

// PendingNotification is a push payload queued because the recipient had no
// live connection. The queue for a user is drained and cleared on their next
// successful authentication.
type PendingNotification struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_pending_notifications_user"`
	Payload   rawjson.JSON `gorm:"not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (PendingNotification) TableName() string { return "pending_notifications" }
