package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username       string    `gorm:"uniqueIndex:ux_users_username;not null"`
	PasswordDigest []byte    `gorm:"not null"`
	Salt           []byte    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }
