package tcp

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"recomm/internal/registry"

	"github.com/google/uuid"
)

// maxFrameBytes caps a single newline-delimited frame.
const maxFrameBytes = 1 << 20

// Server accepts TCP connections and runs one session loop per
// connection. Frames are newline-delimited JSON; the dispatcher owns
// everything above the framing.
type Server struct {
	addr       string
	dispatcher *Dispatcher
	registry   *registry.Registry
	logger     *slog.Logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

func NewServer(addr string, dispatcher *Dispatcher, reg *registry.Registry, logger *slog.Logger) *Server {
	return &Server{
		addr:       addr,
		dispatcher: dispatcher,
		registry:   reg,
		logger:     logger,
	}
}

// ListenAndServe blocks until the context is cancelled or the listener
// fails. In-flight sessions are waited on before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("tcp server listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, nc)
		}()
	}

	s.wg.Wait()
	return ctx.Err()
}

func (s *Server) serveConn(ctx context.Context, nc net.Conn) {
	c := newConn(nc)
	defer c.Close()

	sess := &Session{Conn: c}
	defer func() {
		if sess.UserID != uuid.Nil {
			s.registry.Unregister(sess.UserID, c)
		}
	}()

	remote := nc.RemoteAddr().String()
	s.logger.Debug("connection opened", "remote", remote)

	scanner := bufio.NewScanner(nc)
	scanner.Buffer(make([]byte, 64*1024), maxFrameBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp, closeAfter := s.dispatcher.Dispatch(ctx, sess, line)
		if err := c.WritePayload(resp); err != nil {
			s.logger.Debug("write failed", "remote", remote, "error", err)
			return
		}
		if closeAfter {
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug("read failed", "remote", remote, "error", err)
	}
	s.logger.Debug("connection closed", "remote", remote)
}
