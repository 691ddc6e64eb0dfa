package tcp

import (
	"net"
	"sync"
)

// conn wraps a net.Conn with a write lock. Response writes from the session
// loop and notification pushes from other sessions go through the same lock,
// so frames never interleave on the wire.
type conn struct {
	mu sync.Mutex
	nc net.Conn
}

func newConn(nc net.Conn) *conn { return &conn{nc: nc} }

// WritePayload writes payload as one newline-terminated frame.
func (c *conn) WritePayload(payload []byte) error {
	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, payload...)
	frame = append(frame, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.nc.Write(frame)
	return err
}

func (c *conn) Close() error { return c.nc.Close() }
