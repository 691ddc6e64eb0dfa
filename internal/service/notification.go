package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"recomm/internal/domain"
	"recomm/internal/observability/metrics"

	"github.com/google/uuid"
)

// Notification payloads pushed to clients. Each carries a type discriminator
// so clients can route without inspecting the rest.
const (
	NotifyFriendRequest     = "FRIEND_REQUEST"
	NotifyNewPrivateMessage = "NEW_PRIVATE_MESSAGE"
	NotifyNewGroupMessage   = "NEW_GROUP_MESSAGE"
)

type FriendRequestNotification struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Message string `json:"message"`
	SentAt  int64  `json:"sentAt"`
}

type PrivateMessageNotification struct {
	Type       string `json:"type"`
	MessageID  string `json:"messageId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	SentAt     int64  `json:"sentAt"`
}

type GroupMessageNotification struct {
	Type       string `json:"type"`
	MessageID  string `json:"messageId"`
	GroupID    string `json:"groupId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	SentAt     int64  `json:"sentAt"`
}

// NotificationService delivers a payload live when the recipient has a
// registered connection and queues it otherwise. Delivery is best-effort:
// a flushed queue is cleared even when the re-delivery writes fail.
type NotificationService struct {
	pending NotificationStore
	live    LiveSender
	logger  *slog.Logger
	now     func() time.Time
}

func NewNotificationService(pending NotificationStore, live LiveSender, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		pending: pending,
		live:    live,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if s.live.Send(userID, b) {
		metrics.NotificationsTotal.WithLabelValues("live").Inc()
		s.logger.Debug("sent live notification", "user_id", userID)
		return nil
	}

	pn := &domain.PendingNotification{
		ID:        uuid.New(),
		UserID:    userID,
		Payload:   b,
		CreatedAt: s.now().UTC(),
	}
	if err := s.pending.Save(ctx, pn); err != nil {
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		s.logger.Error("failed to queue notification", "user_id", userID, "error", err)
		return err
	}
	metrics.NotificationsTotal.WithLabelValues("queued").Inc()
	s.logger.Debug("queued pending notification", "user_id", userID)
	return nil
}

// FlushPending replays the user's queued notifications over their live
// connection and then clears the queue regardless of per-item outcome.
func (s *NotificationService) FlushPending(ctx context.Context, userID uuid.UUID) error {
	rows, err := s.pending.PendingFor(ctx, userID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	s.logger.Info("flushing pending notifications", "user_id", userID, "count", len(rows))
	for _, pn := range rows {
		if s.live.Send(userID, pn.Payload) {
			metrics.NotificationsTotal.WithLabelValues("flushed").Inc()
		} else {
			metrics.NotificationsTotal.WithLabelValues("flush_failed").Inc()
		}
	}
	return s.pending.ClearFor(ctx, userID)
}
