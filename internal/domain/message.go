package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessagePrivate MessageType = "PRIVATE"
	MessageGroup   MessageType = "GROUP"
)

// Message is immutable once created. ReceiverID is a user id for PRIVATE
// messages and a group id for GROUP messages.
type Message struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey"`
	SenderID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_messages_sender"`
	ReceiverID  uuid.UUID   `gorm:"type:uuid;not null;index:idx_messages_receiver_sent,priority:1"`
	Type        MessageType `gorm:"not null"`
	Content     string      `gorm:"not null"`
	SentAt      time.Time   `gorm:"not null;index:idx_messages_receiver_sent,priority:2"`
	DeliveredAt time.Time   `gorm:"not null"`
}

func (Message) TableName() string { return "messages" }
