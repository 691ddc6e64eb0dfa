package tcp

import (
	"context"
	"encoding/json"

	"recomm/internal/service"

	"github.com/google/uuid"
)

// Handler serves one named protocol method. Unless RequiresAuth reports
// false the dispatcher verifies the frame token and passes the resolved
// identity; unauthenticated handlers receive uuid.Nil.
type Handler interface {
	Method() string
	RequiresAuth() bool
	Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error)
}

// Handlers builds the full method table over the domain engines.
func Handlers(
	users *service.UserService,
	friendships *service.FriendshipService,
	groups *service.GroupService,
	messages *service.MessageService,
) []Handler {
	return []Handler{
		registerHandler{users: users},
		authHandler{users: users},

		sendFriendRequestHandler{friendships: friendships},
		acceptFriendRequestHandler{friendships: friendships, users: users},
		rejectFriendRequestHandler{friendships: friendships, users: users},
		getFriendsHandler{friendships: friendships, users: users},
		getPendingRequestsHandler{friendships: friendships, users: users},

		createGroupHandler{groups: groups},
		addMemberToGroupHandler{groups: groups},
		updateGroupNameHandler{groups: groups},
		leaveGroupHandler{groups: groups},
		deleteGroupHandler{groups: groups},
		getUserGroupsHandler{groups: groups},
		getGroupDetailsHandler{groups: groups},
		getGroupMembersHandler{groups: groups, users: users},

		sendGroupMessageHandler{messages: messages, method: "SEND_GROUP_MESSAGE"},
		sendGroupMessageHandler{messages: messages, method: "SEND_MESSAGE"},
		sendPrivateMessageHandler{messages: messages, users: users},
		getGroupMessagesHandler{messages: messages},
		getPrivateMessagesHandler{messages: messages, users: users},
		getRecentMessagesHandler{messages: messages},
	}
}

// AuthOnlyHandlers is the reduced table for the single-shot datagram
// listener, which serves registration and login and nothing else.
func AuthOnlyHandlers(users *service.UserService) []Handler {
	return []Handler{
		registerHandler{users: users},
		authHandler{users: users},
	}
}
