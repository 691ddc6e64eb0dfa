package apperr

// Protocol-level failures.
var (
	ErrBadRequestFormat = New(400, "bad request format")
	ErrUnauthorized     = New(401, "invalid or expired token")
)

func UnknownMethod(method string) *Error {
	return New(400, "unknown method: "+method)
}

func MissingField(field string) *Error {
	return New(400, "missing required field: "+field)
}

// Identity failures.
var (
	ErrInvalidCredentials = New(401, "invalid credentials")
	ErrUserAlreadyExists  = New(409, "user already exists")
	ErrUserNotFound       = New(404, "user not found")
)

// Friendship failures.
var (
	ErrCannotBeSelfFriend         = New(400, "cannot send a friend request to yourself")
	ErrAlreadyFriends             = New(409, "users are already friends")
	ErrFriendRequestAlreadySent   = New(409, "friend request already sent")
	ErrFriendRequestNotFound      = New(404, "friend request not found")
	ErrFriendRequestAlreadyDone   = New(409, "friend request already processed")
	ErrFriendRequestProcessFailed = New(500, "failed to process friend request")
	ErrSaveFriendRequestFailed    = New(500, "failed to save friend request")
	ErrUsersNotFriends            = New(403, "users are not friends")
)

// Group failures.
var (
	ErrGroupNotFound           = New(404, "group not found")
	ErrNotGroupMember          = New(403, "user is not a member of the group")
	ErrUserAlreadyInGroup      = New(409, "user is already a member of the group")
	ErrCannotAddNonFriend      = New(400, "cannot add a non-friend to the group")
	ErrCannotLeaveAsLastMember = New(400, "cannot leave the group as its last member")
)
