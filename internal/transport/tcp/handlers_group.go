package tcp

import (
	"context"
	"encoding/json"
	"errors"

	"recomm/internal/apperr"
	"recomm/internal/domain"
	"recomm/internal/service"

	"github.com/google/uuid"
)

type groupJSON struct {
	GroupID   string   `json:"groupId"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creatorId"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

func toGroupJSON(grp *domain.Group) groupJSON {
	members := make([]string, 0, len(grp.Members))
	for _, m := range grp.Members {
		members = append(members, m.String())
	}
	return groupJSON{
		GroupID:   grp.ID.String(),
		Name:      grp.Name,
		CreatorID: grp.CreatorID.String(),
		Members:   members,
		CreatedAt: grp.CreatedAt.Unix(),
		UpdatedAt: grp.UpdatedAt.Unix(),
	}
}

func parseGroupID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperr.MissingField("groupId")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(400, "invalid groupId")
	}
	return id, nil
}

type createGroupHandler struct {
	groups *service.GroupService
}

func (createGroupHandler) Method() string     { return "CREATE_GROUP" }
func (createGroupHandler) RequiresAuth() bool { return true }

func (h createGroupHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		GroupName string `json:"groupName"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	if b.GroupName == "" {
		return nil, apperr.MissingField("groupName")
	}
	groupID, err := h.groups.CreateGroup(ctx, userID, b.GroupName)
	if err != nil {
		return nil, err
	}
	return &struct {
		Base
		GroupID string `json:"groupId"`
	}{ok("group created successfully"), groupID.String()}, nil
}

type addMemberToGroupHandler struct {
	groups *service.GroupService
}

func (addMemberToGroupHandler) Method() string     { return "ADD_MEMBER_TO_GROUP" }
func (addMemberToGroupHandler) RequiresAuth() bool { return true }

func (h addMemberToGroupHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		GroupID  string `json:"groupId"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	groupID, err := parseGroupID(b.GroupID)
	if err != nil {
		return nil, err
	}
	if b.Username == "" {
		return nil, apperr.MissingField("username")
	}
	if err := h.groups.AddMember(ctx, groupID, userID, b.Username); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("member added to group successfully")}, nil
}

type updateGroupNameHandler struct {
	groups *service.GroupService
}

func (updateGroupNameHandler) Method() string     { return "UPDATE_GROUP_NAME" }
func (updateGroupNameHandler) RequiresAuth() bool { return true }

func (h updateGroupNameHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	var b struct {
		GroupID string `json:"groupId"`
		NewName string `json:"newName"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, apperr.ErrBadRequestFormat
	}
	groupID, err := parseGroupID(b.GroupID)
	if err != nil {
		return nil, err
	}
	if b.NewName == "" {
		return nil, apperr.MissingField("newName")
	}
	if err := h.groups.UpdateName(ctx, groupID, userID, b.NewName); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("group name updated successfully")}, nil
}

type groupIDBody struct {
	GroupID string `json:"groupId"`
}

func decodeGroupID(body json.RawMessage) (uuid.UUID, error) {
	var b groupIDBody
	if err := json.Unmarshal(body, &b); err != nil {
		return uuid.Nil, apperr.ErrBadRequestFormat
	}
	return parseGroupID(b.GroupID)
}

type leaveGroupHandler struct {
	groups *service.GroupService
}

func (leaveGroupHandler) Method() string     { return "LEAVE_GROUP" }
func (leaveGroupHandler) RequiresAuth() bool { return true }

func (h leaveGroupHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	groupID, err := decodeGroupID(body)
	if err != nil {
		return nil, err
	}
	if err := h.groups.Leave(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("left group successfully")}, nil
}

type deleteGroupHandler struct {
	groups *service.GroupService
}

func (deleteGroupHandler) Method() string     { return "DELETE_GROUP" }
func (deleteGroupHandler) RequiresAuth() bool { return true }

func (h deleteGroupHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	groupID, err := decodeGroupID(body)
	if err != nil {
		return nil, err
	}
	if err := h.groups.Delete(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return &struct{ Base }{ok("group deleted successfully")}, nil
}

type getUserGroupsHandler struct {
	groups *service.GroupService
}

func (getUserGroupsHandler) Method() string     { return "GET_USER_GROUPS" }
func (getUserGroupsHandler) RequiresAuth() bool { return true }

func (h getUserGroupsHandler) Handle(ctx context.Context, _ json.RawMessage, userID uuid.UUID) (any, error) {
	groups, err := h.groups.UserGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]groupJSON, 0, len(groups))
	for i := range groups {
		out = append(out, toGroupJSON(&groups[i]))
	}
	return &struct {
		Base
		Groups []groupJSON `json:"groups"`
	}{ok("groups retrieved successfully"), out}, nil
}

type getGroupDetailsHandler struct {
	groups *service.GroupService
}

func (getGroupDetailsHandler) Method() string     { return "GET_GROUP_DETAILS" }
func (getGroupDetailsHandler) RequiresAuth() bool { return true }

func (h getGroupDetailsHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	groupID, err := decodeGroupID(body)
	if err != nil {
		return nil, err
	}
	grp, err := h.groups.Details(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	return &struct {
		Base
		Group groupJSON `json:"group"`
	}{ok("group details retrieved successfully"), toGroupJSON(grp)}, nil
}

type getGroupMembersHandler struct {
	groups *service.GroupService
	users  *service.UserService
}

func (getGroupMembersHandler) Method() string     { return "GET_GROUP_MEMBERS" }
func (getGroupMembersHandler) RequiresAuth() bool { return true }

type groupMemberJSON struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

func (h getGroupMembersHandler) Handle(ctx context.Context, body json.RawMessage, userID uuid.UUID) (any, error) {
	groupID, err := decodeGroupID(body)
	if err != nil {
		return nil, err
	}
	memberIDs, err := h.groups.Members(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	members := make([]groupMemberJSON, 0, len(memberIDs))
	for _, id := range memberIDs {
		usr, err := h.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, groupMemberJSON{UUID: id.String(), Username: usr.Username})
	}
	return &struct {
		Base
		Members []groupMemberJSON `json:"members"`
	}{ok("group members retrieved successfully"), members}, nil
}
