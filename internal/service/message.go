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

// RecentWindow bounds the convenience "recent messages" reads.
const RecentWindow = 30 * 24 * time.Hour

// MessageService validates and persists private and group messages and fans
// out the corresponding notifications.
type MessageService struct {
	messages    MessageStore
	groups      GroupStore
	users       UserStore
	friendships FriendshipStore
	notifier    *NotificationService
	logger      *slog.Logger
	now         func() time.Time
}

func NewMessageService(messages MessageStore, groups GroupStore, users UserStore, friendships FriendshipStore, notifier *NotificationService, logger *slog.Logger) *MessageService {
	return &MessageService{
		messages:    messages,
		groups:      groups,
		users:       users,
		friendships: friendships,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SendGroupMessage persists a GROUP message and notifies every member except
// the sender.
func (s *MessageService) SendGroupMessage(ctx context.Context, senderID, groupID uuid.UUID, content string) (uuid.UUID, error) {
	sender, err := s.sender(ctx, senderID)
	if err != nil {
		return uuid.Nil, err
	}

	grp, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return uuid.Nil, apperr.ErrGroupNotFound
		}
		return uuid.Nil, err
	}
	if !grp.HasMember(senderID) {
		return uuid.Nil, apperr.ErrNotGroupMember
	}

	msg, err := s.persist(ctx, senderID, groupID, domain.MessageGroup, content)
	if err != nil {
		return uuid.Nil, err
	}

	notification := GroupMessageNotification{
		Type:       NotifyNewGroupMessage,
		MessageID:  msg.ID.String(),
		GroupID:    groupID.String(),
		SenderID:   senderID.String(),
		SenderName: sender.Username,
		Content:    content,
		SentAt:     msg.SentAt.Unix(),
	}
	for _, memberID := range grp.Members {
		if memberID == senderID {
			continue
		}
		if err := s.notifier.Send(ctx, memberID, notification); err != nil {
			s.logger.Warn("failed to notify group member", "group_id", groupID, "user_id", memberID, "error", err)
		}
	}
	return msg.ID, nil
}

// SendPrivateMessage persists a PRIVATE message between accepted friends and
// notifies the receiver.
func (s *MessageService) SendPrivateMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (uuid.UUID, error) {
	sender, err := s.sender(ctx, senderID)
	if err != nil {
		return uuid.Nil, err
	}
	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, apperr.ErrUserNotFound
	}

	friends, err := s.friendships.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return uuid.Nil, err
	}
	if !friends {
		return uuid.Nil, apperr.ErrUsersNotFriends
	}

	msg, err := s.persist(ctx, senderID, receiverID, domain.MessagePrivate, content)
	if err != nil {
		return uuid.Nil, err
	}

	notification := PrivateMessageNotification{
		Type:       NotifyNewPrivateMessage,
		MessageID:  msg.ID.String(),
		SenderID:   senderID.String(),
		SenderName: sender.Username,
		Content:    content,
		SentAt:     msg.SentAt.Unix(),
	}
	if err := s.notifier.Send(ctx, receiverID, notification); err != nil {
		s.logger.Warn("failed to notify receiver", "receiver_id", receiverID, "error", err)
	}
	return msg.ID, nil
}

func (s *MessageService) GroupMessages(ctx context.Context, groupID, userID uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrUserNotFound
	}

	grp, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, apperr.ErrGroupNotFound
		}
		return nil, err
	}
	if !grp.HasMember(userID) {
		return nil, apperr.ErrNotGroupMember
	}

	return s.messages.ByReceiver(ctx, groupID, since, limit, offset)
}

func (s *MessageService) RecentGroupMessages(ctx context.Context, groupID, userID uuid.UUID, limit int) ([]domain.Message, error) {
	since := s.now().Add(-RecentWindow)
	return s.GroupMessages(ctx, groupID, userID, since, limit, 0)
}

func (s *MessageService) PrivateMessages(ctx context.Context, userID, otherID uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error) {
	for _, id := range []uuid.UUID{userID, otherID} {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.ErrUserNotFound
		}
	}

	friends, err := s.friendships.AreFriends(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if !friends {
		return nil, apperr.ErrUsersNotFriends
	}

	return s.messages.Private(ctx, userID, otherID, since, limit, offset)
}

func (s *MessageService) RecentPrivateMessages(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]domain.Message, error) {
	since := s.now().Add(-RecentWindow)
	return s.PrivateMessages(ctx, userID, otherID, since, limit, 0)
}

func (s *MessageService) sender(ctx context.Context, senderID uuid.UUID) (*domain.User, error) {
	usr, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return usr, nil
}

func (s *MessageService) persist(ctx context.Context, senderID, receiverID uuid.UUID, typ domain.MessageType, content string) (*domain.Message, error) {
	now := s.now().UTC()
	msg := &domain.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Type:        typ,
		Content:     content,
		SentAt:      now,
		DeliveredAt: now,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info("message persisted", "message_id", msg.ID, "type", typ, "sender_id", senderID)
	return msg, nil
}
