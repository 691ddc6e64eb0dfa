package domain

import (
	"time"

	"github.com/google/uuid"
)

// Group membership is kept in a join table; the loaded aggregate carries the
// member ids. A group never exists with zero members: the last member must
// delete it rather than leave.
type Group struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"not null"`
	CreatorID uuid.UUID   `gorm:"type:uuid;not null"`
	Members   []uuid.UUID `gorm:"-"`
	CreatedAt time.Time   `gorm:"not null"`
	UpdatedAt time.Time   `gorm:"not null"`
}

func (Group) TableName() string { return "groups" }

type GroupMember struct {
	GroupID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_group_members_user"`
}

func (GroupMember) TableName() string { return "group_members" }

func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
