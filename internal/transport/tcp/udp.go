package tcp

import (
	"context"
	"errors"
	"log/slog"
	"net"
)

// maxDatagramBytes bounds a single request datagram.
const maxDatagramBytes = 4096

// UDPServer answers single-shot registration and login datagrams. Each
// datagram carries one frame and gets exactly one response; no session
// state survives beyond the reply.
type UDPServer struct {
	addr       string
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func NewUDPServer(addr string, dispatcher *Dispatcher, logger *slog.Logger) *UDPServer {
	return &UDPServer{addr: addr, dispatcher: dispatcher, logger: logger}
}

// ListenAndServe blocks until the context is cancelled or the socket
// fails.
func (s *UDPServer) ListenAndServe(ctx context.Context) error {
	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return err
	}
	defer pc.Close()

	s.logger.Info("udp server listening", "addr", pc.LocalAddr().String())

	go func() {
		<-ctx.Done()
		pc.Close()
	}()

	buf := make([]byte, maxDatagramBytes)
	for {
		n, from, err := pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			s.logger.Warn("udp read failed", "error", err)
			continue
		}

		resp, _ := s.dispatcher.Dispatch(ctx, &Session{Transient: true}, buf[:n])
		if _, err := pc.WriteTo(resp, from); err != nil {
			s.logger.Debug("udp write failed", "remote", from.String(), "error", err)
		}
	}
}
