package tcp

import (
	"context"
	"encoding/json"
	"errors"

	"recomm/internal/apperr"
	"recomm/internal/service"

	"github.com/google/uuid"
)

type sendFriendRequestHandler struct {
	friendships *service.FriendshipService
}

func (sendFriendRequestHandler) Method() string     { return "SEND_FRIEND_REQUEST" }
func (sendFriendRequestHandler) RequiresAuth() bool { return true }

func (h sendFriendRequestHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		AddresseeUsername string `json:"addresseeUsername"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	if b.AddresseeUsername == "" {
		return nil, apperr.MissingField("addresseeUsername")
	}
	if err := h.friendships.SendFriendRequest(ctx, userID, b.AddresseeUsername); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("friend request sent successfully")}, nil
}

type requesterBody struct {
	Requester string `json:"requester"`
}

// resolveRequester maps the requester username from the body to an id. A
// username that no longer resolves reads as a missing request, not a missing
// user, so the two failure modes stay distinguishable.
func resolveRequester(ctx context.Context, users *service.UserService, body json.RawMessage) (uuid.UUID, error) {
	var b requesterBody
	if err := json.Unmarshal(body, &b); err != nil {
		return uuid.Nil, apperr.ErrBadRequestFormat
	}
	if b.Requester == "" {
		return uuid.Nil, apperr.MissingField("requester")
	}
	usr, err := users.GetByUsername(ctx, b.Requester)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return uuid.Nil, apperr.ErrFriendRequestNotFound
		}
		return uuid.Nil, err
	}
	return usr.ID, nil
}

type acceptFriendRequestHandler struct {
	friendships *service.FriendshipService
	users       *service.UserService
}

func (acceptFriendRequestHandler) Method() string     { return "ACCEPT_FRIEND_REQUEST" }
func (acceptFriendRequestHandler) RequiresAuth() bool { return true }

func (h acceptFriendRequestHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	requesterID, err := resolveRequester(ctx, h.users, body)
	if err != nil {
		return nil, err
	}
	if err := h.friendships.AcceptFriendRequest(ctx, userID, requesterID); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("friend request accepted")}, nil
}

type rejectFriendRequestHandler struct {
	friendships *service.FriendshipService
	users       *service.UserService
}

func (rejectFriendRequestHandler) Method() string     { return "REJECT_FRIEND_REQUEST" }
func (rejectFriendRequestHandler) RequiresAuth() bool { return true }

func (h rejectFriendRequestHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	requesterID, err := resolveRequester(ctx, h.users, body)
	if err != nil {
		return nil, err
	}
	if err := h.friendships.RejectFriendRequest(ctx, userID, requesterID); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("friend request rejected")}, nil
}

type getFriendsHandler struct {
	friendships *service.FriendshipService
	users       *service.UserService
}

func (getFriendsHandler) Method() string     { return "GET_FRIENDS" }
func (getFriendsHandler) RequiresAuth() bool { return true }

func (h getFriendsHandler) Handle(ctx context.Context, _ json.RawMessage, userID uuid.UUID) (any, error) {
	ids, err := h.friendships.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends := make([]string, 0, len(ids))
	for _, id := range ids {
		usr, err := h.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		friends = append(friends, usr.Username)
	}
	return &struct {
		Base
		Friends []string `json:"friends"`
	}{ok("friends retrieved successfully"), friends}, nil
}

type getPendingRequestsHandler struct {
	friendships *service.FriendshipService
	users       *service.UserService
}

func (getPendingRequestsHandler) Method() string     { return "GET_PENDING_REQUESTS" }
func (getPendingRequestsHandler) RequiresAuth() bool { return true }

type pendingRequestJSON struct {
	Requester string `json:"requester"`
	Addressee string `json:"addressee"`
	Status    string `json:"status"`
}

func (h getPendingRequestsHandler) Handle(ctx context.Context, _ json.RawMessage, userID uuid.UUID) (any, error) {
	rows, err := h.friendships.PendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending := make([]pendingRequestJSON, 0, len(rows))
	for _, fr := range rows {
		requester, err := h.users.GetByID(ctx, fr.RequesterID)
		if err != nil {
			if errors.Is(err, apperr.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		addressee, err := h.users.GetByID(ctx, fr.AddresseeID)
		if err != nil {
			if errors.Is(err, apperr.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		pending = append(pending, pendingRequestJSON{
			Requester: requester.Username,
			Addressee: addressee.Username,
			Status:    string(fr.Status),
		})
	}
	return &struct {
		Base
		PendingRequests []pendingRequestJSON `json:"pendingRequests"`
	}{ok("pending requests retrieved successfully"), pending}, nil
}
