package service

import (
	"context"
	"errors"
	"testing"

	"recomm/internal/apperr"
	"recomm/internal/domain"

	"github.com/google/uuid"
)

func newGroupFixture() (*GroupService, *memUsers, *memFriendships, *memGroups) {
	users := newMemUsers()
	friendships := newMemFriendships()
	groups := newMemGroups()
	svc := NewGroupService(groups, friendships, users, discardLogger())
	return svc, users, friendships, groups
}

func TestCreateGroupSeedsCreatorAsMember(t *testing.T) {
	svc, users, _, groups := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	id, err := svc.CreateGroup(ctx, alice.ID, "book club")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	grp, err := groups.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("group not persisted: %v", err)
	}
	if grp.CreatorID != alice.ID || grp.Name != "book club" {
		t.Fatalf("unexpected group: %+v", grp)
	}
	if len(grp.Members) != 1 || grp.Members[0] != alice.ID {
		t.Fatalf("creator not seeded as member: %v", grp.Members)
	}
}

func TestCreateGroupUnknownCreator(t *testing.T) {
	svc, _, _, _ := newGroupFixture()
	if _, err := svc.CreateGroup(context.Background(), uuid.New(), "ghosts"); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Fatalf("expected user-not-found, got %v", err)
	}
}

func TestAddMemberRequiresFriendship(t *testing.T) {
	svc, users, friendships, _ := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	bob := users.add("bob")
	users.add("carol")
	friendships.seed(alice.ID, bob.ID, domain.FriendshipAccepted)

	groupID, err := svc.CreateGroup(ctx, alice.ID, "team")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if err := svc.AddMember(ctx, groupID, alice.ID, "bob"); err != nil {
		t.Fatalf("add friend: %v", err)
	}
	if err := svc.AddMember(ctx, groupID, alice.ID, "carol"); !errors.Is(err, apperr.ErrCannotAddNonFriend) {
		t.Fatalf("expected non-friend rejection, got %v", err)
	}
}

func TestAddMemberValidations(t *testing.T) {
	svc, users, friendships, _ := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	bob := users.add("bob")
	outsider := users.add("outsider")
	friendships.seed(alice.ID, bob.ID, domain.FriendshipAccepted)

	groupID, err := svc.CreateGroup(ctx, alice.ID, "team")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := svc.AddMember(ctx, groupID, alice.ID, "bob"); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	cases := []struct {
		name    string
		groupID uuid.UUID
		adder   uuid.UUID
		member  string
		want    error
	}{
		{name: "unknown group", groupID: uuid.New(), adder: alice.ID, member: "bob", want: apperr.ErrGroupNotFound},
		{name: "adder not a member", groupID: groupID, adder: outsider.ID, member: "bob", want: apperr.ErrNotGroupMember},
		{name: "unknown user", groupID: groupID, adder: alice.ID, member: "nobody", want: apperr.ErrUserNotFound},
		{name: "already in group", groupID: groupID, adder: alice.ID, member: "bob", want: apperr.ErrUserAlreadyInGroup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.AddMember(ctx, tc.groupID, tc.adder, tc.member); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUpdateNameRequiresMembership(t *testing.T) {
	svc, users, _, groups := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	outsider := users.add("outsider")
	groupID, err := svc.CreateGroup(ctx, alice.ID, "old name")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if err := svc.UpdateName(ctx, groupID, outsider.ID, "hijacked"); !errors.Is(err, apperr.ErrNotGroupMember) {
		t.Fatalf("expected membership gate, got %v", err)
	}
	if err := svc.UpdateName(ctx, groupID, alice.ID, "new name"); err != nil {
		t.Fatalf("update name: %v", err)
	}

	grp, _ := groups.GetByID(ctx, groupID)
	if grp.Name != "new name" {
		t.Fatalf("name not updated: %q", grp.Name)
	}
}

func TestLeaveGroup(t *testing.T) {
	svc, users, friendships, groups := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	bob := users.add("bob")
	friendships.seed(alice.ID, bob.ID, domain.FriendshipAccepted)

	groupID, err := svc.CreateGroup(ctx, alice.ID, "team")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	// Sole member cannot leave; the group would be orphaned.
	if err := svc.Leave(ctx, groupID, alice.ID); !errors.Is(err, apperr.ErrCannotLeaveAsLastMember) {
		t.Fatalf("expected last-member gate, got %v", err)
	}

	if err := svc.AddMember(ctx, groupID, alice.ID, "bob"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := svc.Leave(ctx, groupID, alice.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	grp, _ := groups.GetByID(ctx, groupID)
	if grp.HasMember(alice.ID) || !grp.HasMember(bob.ID) {
		t.Fatalf("unexpected members after leave: %v", grp.Members)
	}
}

func TestDeleteGroup(t *testing.T) {
	svc, users, _, _ := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	outsider := users.add("outsider")
	groupID, err := svc.CreateGroup(ctx, alice.ID, "team")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if err := svc.Delete(ctx, groupID, outsider.ID); !errors.Is(err, apperr.ErrNotGroupMember) {
		t.Fatalf("expected membership gate, got %v", err)
	}
	if err := svc.Delete(ctx, groupID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Details(ctx, groupID, alice.ID); !errors.Is(err, apperr.ErrGroupNotFound) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestUserGroupsAndDetails(t *testing.T) {
	svc, users, _, _ := newGroupFixture()
	ctx := context.Background()

	alice := users.add("alice")
	outsider := users.add("outsider")
	groupID, err := svc.CreateGroup(ctx, alice.ID, "team")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	got, err := svc.UserGroups(ctx, alice.ID)
	if err != nil {
		t.Fatalf("user groups: %v", err)
	}
	if len(got) != 1 || got[0].ID != groupID {
		t.Fatalf("expected one group, got %+v", got)
	}

	if _, err := svc.UserGroups(ctx, uuid.New()); !errors.Is(err, apperr.ErrUserNotFound) {
		t.Fatalf("expected user-not-found, got %v", err)
	}
	if _, err := svc.Details(ctx, groupID, outsider.ID); !errors.Is(err, apperr.ErrNotGroupMember) {
		t.Fatalf("expected membership gate on details, got %v", err)
	}

	members, err := svc.Members(ctx, groupID, alice.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 || members[0] != alice.ID {
		t.Fatalf("unexpected members: %v", members)
	}
}
