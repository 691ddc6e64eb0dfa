package tcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"recomm/internal/apperr"
	"recomm/internal/observability/metrics"
	"recomm/internal/registry"
	"recomm/internal/service"

	"github.com/google/uuid"
)

// Session is one connection's mutable dispatch state. The identity is bound
// on the first successful REGISTER, AUTH or authenticated call. Transient
// sessions (the datagram path) never touch the connection registry.
type Session struct {
	Conn      registry.Conn
	UserID    uuid.UUID
	Transient bool
}

// Dispatcher parses frames, enforces the authentication gate, routes to the
// named handler and maps every failure to a {code,message} frame. It is the
// single point where the error taxonomy becomes response codes.
type Dispatcher struct {
	handlers map[string]Handler
	tokens   *service.TokenService
	registry *registry.Registry
	notifier *service.NotificationService
	logger   *slog.Logger
}

func NewDispatcher(
	tokens *service.TokenService,
	reg *registry.Registry,
	notifier *service.NotificationService,
	logger *slog.Logger,
	handlers []Handler,
) *Dispatcher {
	table := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		table[h.Method()] = h
	}
	return &Dispatcher{
		handlers: table,
		tokens:   tokens,
		registry: reg,
		notifier: notifier,
		logger:   logger,
	}
}

// Dispatch handles one raw frame and returns the serialized response plus
// whether the session must close afterwards (the single-strike policy).
func (d *Dispatcher) Dispatch(ctx context.Context, sess *Session, raw []byte) ([]byte, bool) {
	started := time.Now()

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		// A malformed frame degrades to an empty request rather than
		// terminating the connection; it fails the format check below.
		req = Request{}
	}

	resp, err := d.dispatch(ctx, sess, &req)

	method := req.Method
	if method == "" {
		method = "?"
	}

	if err != nil {
		code := apperr.CodeOf(err)
		frame := errorFrame{Code: code, Message: apperr.MessageOf(err)}
		if code == 401 && d.isUnauthorized(err) {
			frame.Close = true
		}
		if apperr.ClientCaused(err) {
			d.logger.Warn("request failed", "method", method, "code", code, "error", err)
		} else {
			d.logger.Error("request failed", "method", method, "code", code, "error", err)
		}
		metrics.RequestsTotal.WithLabelValues(method, codeLabel(code)).Inc()
		metrics.RequestDurationSeconds.WithLabelValues(method).Observe(time.Since(started).Seconds())
		return mustMarshal(frame), frame.Close
	}

	metrics.RequestsTotal.WithLabelValues(method, "200").Inc()
	metrics.RequestDurationSeconds.WithLabelValues(method).Observe(time.Since(started).Seconds())
	return mustMarshal(resp), false
}

func (d *Dispatcher) dispatch(ctx context.Context, sess *Session, req *Request) (any, error) {
	if req.Method == "" || len(req.Body) == 0 {
		return nil, apperr.ErrBadRequestFormat
	}

	h, found := d.handlers[req.Method]
	if !found {
		return nil, apperr.UnknownMethod(req.Method)
	}

	if h.RequiresAuth() {
		if req.Token == "" {
			return nil, apperr.ErrUnauthorized
		}
		subject, err := d.tokens.Verify(req.Token)
		if err != nil {
			return nil, apperr.ErrUnauthorized
		}
		d.bind(ctx, sess, subject)
	}

	resp, err := h.Handle(ctx, req.Body, sess.UserID)
	if err != nil {
		return nil, err
	}

	// A freshly issued token on REGISTER/AUTH success also establishes the
	// live push session for that identity.
	if !h.RequiresAuth() {
		if grant, okGrant := resp.(*tokenGrant); okGrant && grant.Token != "" {
			if subject, err := d.tokens.Verify(grant.Token); err == nil {
				d.bind(ctx, sess, subject)
			}
		}
	}

	return resp, nil
}

// bind attaches the identity to the session and upserts the registry entry
// for it. The pending-notification flush fires only when the bound identity
// actually changes, fire-and-forget.
func (d *Dispatcher) bind(ctx context.Context, sess *Session, userID uuid.UUID) {
	changed := sess.UserID != userID
	sess.UserID = userID
	if sess.Transient {
		return
	}
	d.registry.Register(userID, sess.Conn)
	if changed {
		go func() {
			if err := d.notifier.FlushPending(context.WithoutCancel(ctx), userID); err != nil {
				d.logger.Error("pending flush failed", "user_id", userID, "error", err)
			}
		}()
	}
}

func (d *Dispatcher) isUnauthorized(err error) bool {
	return errors.Is(err, apperr.ErrUnauthorized)
}

func codeLabel(code int) string {
	return strconv.Itoa(code)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Handler responses are plain structs; this cannot fail at runtime.
		return []byte(`{"code":500,"message":"internal server error"}`)
	}
	return b
}
