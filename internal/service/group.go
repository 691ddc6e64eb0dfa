package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recomm/internal/apperr"
	"recomm/internal/domain"
	"recomm/internal/store"

	"github.com/google/uuid"
)

// GroupService enforces the membership invariants: every mutation and read
// is gated on membership, growth is gated on friendship, and a group never
// reaches zero members through leaveGroup.
type GroupService struct {
	groups      GroupStore
	friendships FriendshipStore
	users       UserStore
	logger      *slog.Logger
	now         func() time.Time
}

func NewGroupService(groups GroupStore, friendships FriendshipStore, users UserStore, logger *slog.Logger) *GroupService {
	return &GroupService{
		groups:      groups,
		friendships: friendships,
		users:       users,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, creatorID uuid.UUID, name string) (uuid.UUID, error) {
	exists, err := s.users.Exists(ctx, creatorID)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, apperr.ErrUserNotFound
	}

	now := s.now().UTC()
	grp := &domain.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatorID: creatorID,
		Members:   []uuid.UUID{creatorID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.groups.Create(ctx, grp); err != nil {
		return uuid.Nil, err
	}
	s.logger.Info("created group", "group_id", grp.ID, "creator_id", creatorID)
	return grp.ID, nil
}

// AddMember admits a new member only when the adder already belongs to the
// group and is an accepted friend of the candidate.
func (s *GroupService) AddMember(ctx context.Context, groupID, adderID uuid.UUID, newMemberUsername string) error {
	grp, err := s.get(ctx, groupID)
	if err != nil {
		return err
	}
	if !grp.HasMember(adderID) {
		return apperr.ErrNotGroupMember
	}

	newMember, err := s.users.GetByUsername(ctx, newMemberUsername)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}
	if grp.HasMember(newMember.ID) {
		return apperr.ErrUserAlreadyInGroup
	}

	friends, err := s.friendships.AreFriends(ctx, adderID, newMember.ID)
	if err != nil {
		return err
	}
	if !friends {
		return apperr.ErrCannotAddNonFriend
	}

	if err := s.groups.AddMember(ctx, groupID, newMember.ID, s.now().UTC()); err != nil {
		return err
	}
	s.logger.Info("added group member", "group_id", groupID, "user_id", newMember.ID, "adder_id", adderID)
	return nil
}

func (s *GroupService) UpdateName(ctx context.Context, groupID, userID uuid.UUID, newName string) error {
	grp, err := s.get(ctx, groupID)
	if err != nil {
		return err
	}
	if !grp.HasMember(userID) {
		return apperr.ErrNotGroupMember
	}
	return s.groups.UpdateName(ctx, groupID, newName, s.now().UTC())
}

// Leave removes the caller from the group. The last member cannot leave; the
// group must be deleted instead so it never exists empty.
func (s *GroupService) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	grp, err := s.get(ctx, groupID)
	if err != nil {
		return err
	}
	if !grp.HasMember(userID) {
		return apperr.ErrNotGroupMember
	}
	if len(grp.Members) == 1 {
		return apperr.ErrCannotLeaveAsLastMember
	}
	if err := s.groups.RemoveMember(ctx, groupID, userID, s.now().UTC()); err != nil {
		return err
	}
	s.logger.Info("user left group", "group_id", groupID, "user_id", userID)
	return nil
}

func (s *GroupService) Delete(ctx context.Context, groupID, userID uuid.UUID) error {
	grp, err := s.get(ctx, groupID)
	if err != nil {
		return err
	}
	if !grp.HasMember(userID) {
		return apperr.ErrNotGroupMember
	}
	if err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}
	s.logger.Info("deleted group", "group_id", groupID, "user_id", userID)
	return nil
}

func (s *GroupService) UserGroups(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrUserNotFound
	}
	return s.groups.GetByMember(ctx, userID)
}

func (s *GroupService) Details(ctx context.Context, groupID, userID uuid.UUID) (*domain.Group, error) {
	grp, err := s.get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !grp.HasMember(userID) {
		return nil, apperr.ErrNotGroupMember
	}
	return grp, nil
}

func (s *GroupService) Members(ctx context.Context, groupID, userID uuid.UUID) ([]uuid.UUID, error) {
	grp, err := s.Details(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	return grp.Members, nil
}

func (s *GroupService) get(ctx context.Context, groupID uuid.UUID) (*domain.Group, error) {
	grp, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, apperr.ErrGroupNotFound
		}
		return nil, err
	}
	return grp, nil
}
