package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"recomm/internal/apperr"
	"recomm/internal/domain"
	"recomm/internal/store"

	"github.com/google/uuid"
)

// FriendshipService owns the friend-request state machine:
// PENDING -> ACCEPTED | REJECTED, both terminal.
type FriendshipService struct {
	users       UserStore
	friendships FriendshipStore
	notifier    *NotificationService
	logger      *slog.Logger
	now         func() time.Time
}

func NewFriendshipService(users UserStore, friendships FriendshipStore, notifier *NotificationService, logger *slog.Logger) *FriendshipService {
	return &FriendshipService{
		users:       users,
		friendships: friendships,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SendFriendRequest inserts a PENDING row (requester, addressee). Two special
// cases: an existing ordered row in any status blocks resubmission, and an
// existing reverse row collapses both requests into one accepted friendship.
func (s *FriendshipService) SendFriendRequest(ctx context.Context, requesterID uuid.UUID, addresseeUsername string) error {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	addressee, err := s.users.GetByUsername(ctx, addresseeUsername)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return apperr.ErrUserNotFound
		}
		return err
	}

	if requesterID == addressee.ID {
		return apperr.ErrCannotBeSelfFriend
	}

	accepted, err := s.friendships.AreFriends(ctx, requesterID, addressee.ID)
	if err != nil {
		return err
	}
	if accepted {
		return apperr.ErrAlreadyFriends
	}

	if _, err := s.friendships.Find(ctx, requesterID, addressee.ID); err == nil {
		return apperr.ErrFriendRequestAlreadySent
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	// Symmetric collapse: a pending reverse request means both sides want
	// the friendship, so accept that row instead of inserting a new one.
	if _, err := s.friendships.Find(ctx, addressee.ID, requesterID); err == nil {
		return s.AcceptFriendRequest(ctx, requesterID, addressee.ID)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return err
	}

	now := s.now().UTC()
	fr := &domain.Friendship{
		RequesterID: requesterID,
		AddresseeID: addressee.ID,
		Status:      domain.FriendshipPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.friendships.Save(ctx, fr); err != nil {
		s.logger.Error("failed to save friend request", "requester_id", requesterID, "error", err)
		return apperr.ErrSaveFriendRequestFailed
	}

	s.logger.Info("friend request sent", "requester_id", requesterID, "addressee_id", addressee.ID)

	notification := FriendRequestNotification{
		Type:    NotifyFriendRequest,
		From:    requester.Username,
		Message: fmt.Sprintf("%s sent you a friend request", requester.Username),
		SentAt:  now.Unix(),
	}
	if err := s.notifier.Send(ctx, addressee.ID, notification); err != nil {
		s.logger.Warn("failed to notify addressee", "addressee_id", addressee.ID, "error", err)
	}
	return nil
}

func (s *FriendshipService) AcceptFriendRequest(ctx context.Context, userID, requesterID uuid.UUID) error {
	return s.resolve(ctx, userID, requesterID, domain.FriendshipAccepted)
}

func (s *FriendshipService) RejectFriendRequest(ctx context.Context, userID, requesterID uuid.UUID) error {
	return s.resolve(ctx, userID, requesterID, domain.FriendshipRejected)
}

func (s *FriendshipService) resolve(ctx context.Context, userID, requesterID uuid.UUID, status domain.FriendshipStatus) error {
	fr, err := s.friendships.Find(ctx, requesterID, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return apperr.ErrFriendRequestNotFound
		}
		return err
	}
	if fr.Status != domain.FriendshipPending {
		return apperr.ErrFriendRequestAlreadyDone
	}
	if err := s.friendships.UpdateStatus(ctx, requesterID, userID, status, s.now().UTC()); err != nil {
		s.logger.Error("failed to update friend request", "requester_id", requesterID, "addressee_id", userID, "error", err)
		return apperr.ErrFriendRequestProcessFailed
	}
	s.logger.Info("friend request resolved", "requester_id", requesterID, "addressee_id", userID, "status", status)
	return nil
}

func (s *FriendshipService) Friends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.friendships.Friends(ctx, userID)
}

func (s *FriendshipService) PendingRequests(ctx context.Context, userID uuid.UUID) ([]domain.Friendship, error) {
	return s.friendships.PendingFor(ctx, userID)
}
