// Package registry tracks the single live connection per authenticated user.
package registry

import (
	"log/slog"
	"sync"

	"recomm/internal/observability/metrics"

	"github.com/google/uuid"
)

// Conn is the outbound side of one client connection. Implementations must
// serialize their own writes so a pushed notification never interleaves
// mid-frame with a concurrent response write on the same connection.
type Conn interface {
	WritePayload(payload []byte) error
}

type Registry struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]Conn
	logger *slog.Logger
}

func New(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[uuid.UUID]Conn),
		logger: logger,
	}
}

// Register upserts the connection for userID. A previous entry is silently
// replaced: last writer wins, no multi-device fan-out.
func (r *Registry) Register(userID uuid.UUID, c Conn) {
	r.mu.Lock()
	r.conns[userID] = c
	n := len(r.conns)
	r.mu.Unlock()

	metrics.ActiveConnections.Set(float64(n))
	r.logger.Info("registered connection", "user_id", userID)
}

// Unregister removes the entry for userID if it still points at c. A session
// tearing down after being superseded by a newer connection must not evict
// the replacement.
func (r *Registry) Unregister(userID uuid.UUID, c Conn) {
	r.mu.Lock()
	if cur, ok := r.conns[userID]; ok && cur == c {
		delete(r.conns, userID)
	}
	n := len(r.conns)
	r.mu.Unlock()

	metrics.ActiveConnections.Set(float64(n))
	r.logger.Info("unregistered connection", "user_id", userID)
}

// Send writes payload to the user's live connection. It reports false when no
// entry exists or the underlying write fails.
func (r *Registry) Send(userID uuid.UUID, payload []byte) bool {
	r.mu.RLock()
	c, ok := r.conns[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if err := c.WritePayload(payload); err != nil {
		r.logger.Warn("failed to send payload", "user_id", userID, "error", err)
		return false
	}
	return true
}

func (r *Registry) IsConnected(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[userID]
	return ok
}
