package store

import (
	"context"
	"errors"
	"time"

	"recomm/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupStore struct{ db *gorm.DB }

func (s *Store) Groups() *GroupStore { return &GroupStore{db: s.DB} }

// Create persists the group row and one membership row per initial member in
// a single transaction.
func (g *GroupStore) Create(ctx context.Context, grp *domain.Group) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grp).Error; err != nil {
			return err
		}
		for _, m := range grp.Members {
			if err := tx.Create(&domain.GroupMember{GroupID: grp.ID, UserID: m}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *GroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var grp domain.Group
	if err := g.db.WithContext(ctx).First(&grp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	members, err := g.members(ctx, id)
	if err != nil {
		return nil, err
	}
	grp.Members = members
	return &grp, nil
}

func (g *GroupStore) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GroupStore) AddMember(ctx context.Context, groupID, userID uuid.UUID, at time.Time) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&domain.GroupMember{GroupID: groupID, UserID: userID}).Error; err != nil {
			return err
		}
		return g.touch(tx, groupID, at)
	})
}

func (g *GroupStore) RemoveMember(ctx context.Context, groupID, userID uuid.UUID, at time.Time) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&domain.GroupMember{}, "group_id = ? AND user_id = ?", groupID, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return g.touch(tx, groupID, at)
	})
}

func (g *GroupStore) UpdateName(ctx context.Context, groupID uuid.UUID, name string, at time.Time) error {
	res := g.db.WithContext(ctx).Model(&domain.Group{}).
		Where("id = ?", groupID).
		Updates(map[string]any{"name": name, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (g *GroupStore) Delete(ctx context.Context, groupID uuid.UUID) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.GroupMember{}, "group_id = ?", groupID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Group{}, "id = ?", groupID).Error
	})
}

func (g *GroupStore) GetByMember(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	var memberships []domain.GroupMember
	if err := g.db.WithContext(ctx).Find(&memberships, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	groups := make([]domain.Group, 0, len(memberships))
	for _, m := range memberships {
		grp, err := g.GetByID(ctx, m.GroupID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		groups = append(groups, *grp)
	}
	return groups, nil
}

func (g *GroupStore) members(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var rows []domain.GroupMember
	if err := g.db.WithContext(ctx).Find(&rows, "group_id = ?", groupID).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	return ids, nil
}

func (g *GroupStore) touch(tx *gorm.DB, groupID uuid.UUID, at time.Time) error {
	return tx.Model(&domain.Group{}).
		Where("id = ?", groupID).
		Update("updated_at", at).Error
}
