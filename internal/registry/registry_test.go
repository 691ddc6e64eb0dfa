package registry

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type captureConn struct {
	mu       sync.Mutex
	payloads [][]byte
	writeErr error
}

func (c *captureConn) WritePayload(payload []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, append([]byte(nil), payload...))
	return nil
}

func (c *captureConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func newTestRegistry() *Registry {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendToRegisteredConnection(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	c := &captureConn{}
	r.Register(userID, c)

	if !r.IsConnected(userID) {
		t.Fatalf("expected user to be connected")
	}
	if !r.Send(userID, []byte(`{"hello":1}`)) {
		t.Fatalf("send to registered connection must succeed")
	}
	if c.count() != 1 {
		t.Fatalf("expected 1 payload, got %d", c.count())
	}
}

func TestSendToUnknownUser(t *testing.T) {
	r := newTestRegistry()
	if r.Send(uuid.New(), []byte("x")) {
		t.Fatalf("send without a registered connection must report false")
	}
}

func TestSendReportsWriteFailure(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	r.Register(userID, &captureConn{writeErr: errors.New("broken pipe")})

	if r.Send(userID, []byte("x")) {
		t.Fatalf("failed write must report false")
	}
}

func TestRegisterReplacesPreviousConnection(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	old := &captureConn{}
	replacement := &captureConn{}

	r.Register(userID, old)
	r.Register(userID, replacement)

	r.Send(userID, []byte("x"))
	if old.count() != 0 || replacement.count() != 1 {
		t.Fatalf("payload must go to the replacement: old=%d new=%d", old.count(), replacement.count())
	}
}

func TestUnregisterOnlyRemovesOwnEntry(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	old := &captureConn{}
	replacement := &captureConn{}

	r.Register(userID, old)
	r.Register(userID, replacement)

	// The superseded session tears down; the live entry must survive.
	r.Unregister(userID, old)
	if !r.IsConnected(userID) {
		t.Fatalf("replacement connection must stay registered")
	}

	r.Unregister(userID, replacement)
	if r.IsConnected(userID) {
		t.Fatalf("owner teardown must remove the entry")
	}
}

func TestConcurrentSends(t *testing.T) {
	r := newTestRegistry()
	userID := uuid.New()
	c := &captureConn{}
	r.Register(userID, c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Send(userID, []byte("x"))
		}()
	}
	wg.Wait()

	if c.count() != 50 {
		t.Fatalf("expected 50 payloads, got %d", c.count())
	}
}
