package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"recomm/internal/domain"
	"recomm/internal/store"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUsers struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*domain.User
	byName map[string]uuid.UUID
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:   make(map[uuid.UUID]*domain.User),
		byName: make(map[string]uuid.UUID),
	}
}

func (m *memUsers) add(username string) *domain.User {
	usr := &domain.User{ID: uuid.New(), Username: username, CreatedAt: time.Now().UTC()}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[usr.ID] = usr
	m.byName[username] = usr.ID
	return usr
}

func (m *memUsers) Create(ctx context.Context, usr *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *usr
	m.byID[usr.ID] = &copy
	m.byName[usr.Username] = usr.ID
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	usr, ok := m.byID[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *usr
	return &copy, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byName[username]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *m.byID[id]
	return &copy, nil
}

func (m *memUsers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok, nil
}

func (m *memUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byName[username]
	return ok, nil
}

type pairKey struct{ requester, addressee uuid.UUID }

type memFriendships struct {
	mu   sync.Mutex
	rows map[pairKey]*domain.Friendship

	saveErr   error
	updateErr error
}

func newMemFriendships() *memFriendships {
	return &memFriendships{rows: make(map[pairKey]*domain.Friendship)}
}

func (m *memFriendships) seed(requesterID, addresseeID uuid.UUID, status domain.FriendshipStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	m.rows[pairKey{requesterID, addresseeID}] = &domain.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (m *memFriendships) Save(ctx context.Context, fr *domain.Friendship) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *fr
	m.rows[pairKey{fr.RequesterID, fr.AddresseeID}] = &copy
	return nil
}

func (m *memFriendships) Find(ctx context.Context, requesterID, addresseeID uuid.UUID) (*domain.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fr, ok := m.rows[pairKey{requesterID, addresseeID}]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *fr
	return &copy, nil
}

func (m *memFriendships) UpdateStatus(ctx context.Context, requesterID, addresseeID uuid.UUID, status domain.FriendshipStatus, at time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fr, ok := m.rows[pairKey{requesterID, addresseeID}]
	if !ok {
		return store.ErrRecordNotFound
	}
	fr.Status = status
	fr.UpdatedAt = at
	return nil
}

func (m *memFriendships) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range []pairKey{{a, b}, {b, a}} {
		if fr, ok := m.rows[key]; ok && fr.Status == domain.FriendshipAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFriendships) Friends(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for key, fr := range m.rows {
		if fr.Status != domain.FriendshipAccepted {
			continue
		}
		switch userID {
		case key.requester:
			out = append(out, key.addressee)
		case key.addressee:
			out = append(out, key.requester)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (m *memFriendships) PendingFor(ctx context.Context, userID uuid.UUID) ([]domain.Friendship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Friendship
	for key, fr := range m.rows {
		if key.addressee == userID && fr.Status == domain.FriendshipPending {
			out = append(out, *fr)
		}
	}
	return out, nil
}

type memGroups struct {
	mu     sync.Mutex
	groups map[uuid.UUID]*domain.Group
}

func newMemGroups() *memGroups {
	return &memGroups{groups: make(map[uuid.UUID]*domain.Group)}
}

func (m *memGroups) Create(ctx context.Context, grp *domain.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *grp
	copy.Members = append([]uuid.UUID(nil), grp.Members...)
	m.groups[grp.ID] = &copy
	return nil
}

func (m *memGroups) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grp, ok := m.groups[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	copy := *grp
	copy.Members = append([]uuid.UUID(nil), grp.Members...)
	return &copy, nil
}

func (m *memGroups) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	grp, ok := m.groups[groupID]
	if !ok {
		return false, nil
	}
	return grp.HasMember(userID), nil
}

func (m *memGroups) AddMember(ctx context.Context, groupID, userID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	grp, ok := m.groups[groupID]
	if !ok {
		return store.ErrRecordNotFound
	}
	grp.Members = append(grp.Members, userID)
	grp.UpdatedAt = at
	return nil
}

func (m *memGroups) RemoveMember(ctx context.Context, groupID, userID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	grp, ok := m.groups[groupID]
	if !ok {
		return store.ErrRecordNotFound
	}
	kept := grp.Members[:0]
	for _, id := range grp.Members {
		if id != userID {
			kept = append(kept, id)
		}
	}
	grp.Members = kept
	grp.UpdatedAt = at
	return nil
}

func (m *memGroups) UpdateName(ctx context.Context, groupID uuid.UUID, name string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	grp, ok := m.groups[groupID]
	if !ok {
		return store.ErrRecordNotFound
	}
	grp.Name = name
	grp.UpdatedAt = at
	return nil
}

func (m *memGroups) Delete(ctx context.Context, groupID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, groupID)
	return nil
}

func (m *memGroups) GetByMember(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Group
	for _, grp := range m.groups {
		if grp.HasMember(userID) {
			copy := *grp
			copy.Members = append([]uuid.UUID(nil), grp.Members...)
			out = append(out, copy)
		}
	}
	return out, nil
}

type memMessages struct {
	mu   sync.Mutex
	rows []domain.Message
}

func (m *memMessages) Create(ctx context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memMessages) ByReceiver(ctx context.Context, receiverID uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.rows {
		if msg.ReceiverID == receiverID && !msg.SentAt.Before(since) {
			out = append(out, msg)
		}
	}
	return page(out, limit, offset), nil
}

func (m *memMessages) Private(ctx context.Context, a, b uuid.UUID, since time.Time, limit, offset int) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.rows {
		if msg.Type != domain.MessagePrivate || msg.SentAt.Before(since) {
			continue
		}
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			out = append(out, msg)
		}
	}
	return page(out, limit, offset), nil
}

func page(msgs []domain.Message, limit, offset int) []domain.Message {
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].SentAt.After(msgs[j].SentAt) })
	if offset > 0 {
		if offset >= len(msgs) {
			return nil
		}
		msgs = msgs[offset:]
	}
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs
}

type memNotifications struct {
	mu   sync.Mutex
	rows []domain.PendingNotification

	saveErr error
}

func (m *memNotifications) Save(ctx context.Context, pn *domain.PendingNotification) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *pn)
	return nil
}

func (m *memNotifications) PendingFor(ctx context.Context, userID uuid.UUID) ([]domain.PendingNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PendingNotification
	for _, pn := range m.rows {
		if pn.UserID == userID {
			out = append(out, pn)
		}
	}
	return out, nil
}

func (m *memNotifications) ClearFor(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, pn := range m.rows {
		if pn.UserID != userID {
			kept = append(kept, pn)
		}
	}
	m.rows = kept
	return nil
}

// fakeLive records live sends and reports connectivity per user.
type fakeLive struct {
	mu        sync.Mutex
	connected map[uuid.UUID]bool
	sent      map[uuid.UUID][][]byte
}

func newFakeLive(connected ...uuid.UUID) *fakeLive {
	f := &fakeLive{
		connected: make(map[uuid.UUID]bool),
		sent:      make(map[uuid.UUID][][]byte),
	}
	for _, id := range connected {
		f.connected[id] = true
	}
	return f
}

func (f *fakeLive) Send(userID uuid.UUID, payload []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected[userID] {
		return false
	}
	f.sent[userID] = append(f.sent[userID], append([]byte(nil), payload...))
	return true
}

func (f *fakeLive) IsConnected(userID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected[userID]
}

func (f *fakeLive) sentTo(userID uuid.UUID) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[userID]
}
