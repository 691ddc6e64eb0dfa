package tcp

import (
	"context"
	"encoding/json"
	"time"

	"recomm/internal/apperr"
	"recomm/internal/domain"
	"recomm/internal/service"

	"github.com/google/uuid"
)

const defaultMessageLimit = 100

type messageJSON struct {
	MessageID   string `json:"messageId"`
	SenderID    string `json:"senderId"`
	ReceiverID  string `json:"receiverId"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	SentAt      int64  `json:"sentAt"`
	DeliveredAt int64  `json:"deliveredAt"`
}

type messagesResponse struct {
	Base
	Messages []messageJSON `json:"messages"`
	Count    int           `json:"count"`
}

func toMessagesResponse(msgs []domain.Message) *messagesResponse {
	out := make([]messageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageJSON{
			MessageID:   m.ID.String(),
			SenderID:    m.SenderID.String(),
			ReceiverID:  m.ReceiverID.String(),
			Type:        string(m.Type),
			Content:     m.Content,
			SentAt:      m.SentAt.Unix(),
			DeliveredAt: m.DeliveredAt.Unix(),
		})
	}
	return &messagesResponse{Base: Base{Code: 200}, Messages: out, Count: len(out)}
}

type pageBody struct {
	Since  *int64 `json:"since"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (p pageBody) limitOrDefault() int {
	if p.Limit <= 0 {
		return defaultMessageLimit
	}
	return p.Limit
}

type sendGroupMessageHandler struct {
	messages *service.MessageService
	method   string
}

func (h sendGroupMessageHandler) Method() string     { return h.method }
func (h sendGroupMessageHandler) RequiresAuth() bool { return true }

func (h sendGroupMessageHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		GroupID string `json:"groupId"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	groupID, err := parseGroupID(b.GroupID)
	if err != nil {
		return nil, err
	}
	if b.Content == "" {
		return nil, apperr.MissingField("content")
	}
	messageID, err := h.messages.SendGroupMessage(ctx, userID, groupID, b.Content)
	if err != nil {
		return nil, err
	}
	return &struct {
		Base
		MessageID string `json:"messageId"`
	}{ok("group message sent successfully"), messageID.String()}, nil
}

type sendPrivateMessageHandler struct {
	messages *service.MessageService
	users    *service.UserService
}

func (sendPrivateMessageHandler) Method() string     { return "SEND_PRIVATE_MESSAGE" }
func (sendPrivateMessageHandler) RequiresAuth() bool { return true }

func (h sendPrivateMessageHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		ReceiverUsername string `json:"receiverUsername"`
		Content          string `json:"content"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	if b.ReceiverUsername == "" {
		return nil, apperr.MissingField("receiverUsername")
	}
	if b.Content == "" {
		return nil, apperr.MissingField("content")
	}
	receiver, err := h.users.GetByUsername(ctx, b.ReceiverUsername)
	if err != nil {
		return nil, err
	}
	messageID, err := h.messages.SendPrivateMessage(ctx, userID, receiver.ID, b.Content)
	if err != nil {
		return nil, err
	}
	return &struct {
		Base
		MessageID string `json:"messageId"`
	}{ok("private message sent successfully"), messageID.String()}, nil
}

type getGroupMessagesHandler struct {
	messages *service.MessageService
}

func (getGroupMessagesHandler) Method() string     { return "GET_GROUP_MESSAGES" }
func (getGroupMessagesHandler) RequiresAuth() bool { return true }

func (h getGroupMessagesHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		GroupID string `json:"groupId"`
		pageBody
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	groupID, err := parseGroupID(b.GroupID)
	if err != nil {
		return nil, err
	}

	var msgs []domain.Message
	if b.Since != nil {
		msgs, err = h.messages.GroupMessages(ctx, groupID, userID, time.Unix(*b.Since, 0), b.limitOrDefault(), b.Offset)
	} else {
		msgs, err = h.messages.RecentGroupMessages(ctx, groupID, userID, b.limitOrDefault())
	}
	if err != nil {
		return nil, err
	}
	return toMessagesResponse(msgs), nil
}

type getPrivateMessagesHandler struct {
	messages *service.MessageService
	users    *service.UserService
}

func (getPrivateMessagesHandler) Method() string     { return "GET_PRIVATE_MESSAGES" }
func (getPrivateMessagesHandler) RequiresAuth() bool { return true }

func (h getPrivateMessagesHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		OtherUsername string `json:"otherUsername"`
		pageBody
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	if b.OtherUsername == "" {
		return nil, apperr.MissingField("otherUsername")
	}
	other, err := h.users.GetByUsername(ctx, b.OtherUsername)
	if err != nil {
		return nil, err
	}

	var msgs []domain.Message
	if b.Since != nil {
		msgs, err = h.messages.PrivateMessages(ctx, userID, other.ID, time.Unix(*b.Since, 0), b.limitOrDefault(), b.Offset)
	} else {
		msgs, err = h.messages.RecentPrivateMessages(ctx, userID, other.ID, b.limitOrDefault())
	}
	if err != nil {
		return nil, err
	}
	return toMessagesResponse(msgs), nil
}

type getRecentMessagesHandler struct {
	messages *service.MessageService
}

func (getRecentMessagesHandler) Method() string     { return "GET_RECENT_MESSAGES" }
func (getRecentMessagesHandler) RequiresAuth() bool { return true }

func (h getRecentMessagesHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		GroupID string `json:"groupId"`
		Limit   int    `json:"limit"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	groupID, err := parseGroupID(b.GroupID)
	if err != nil {
		return nil, err
	}
	limit := b.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	msgs, err := h.messages.RecentGroupMessages(ctx, groupID, userID, limit)
	if err != nil {
		return nil, err
	}
	return toMessagesResponse(msgs), nil
}
