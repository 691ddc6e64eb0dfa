package tcp

import (
	"context"
	"encoding/json"

	"recomm/internal/apperr"
	"recomm/internal/service"

	"github.com/google/uuid"
)

// tokenGrant is the REGISTER/AUTH success response. The dispatcher inspects
// it to bind the freshly issued identity to the session.
type tokenGrant struct {
	Base
	Token string `json:"token"`
}

type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(body json.RawMessage) (credentialsBody, error) {
	var b credentialsBody
	if err := json.Unmarshal(body, &b); err != nil {
		return b, apperr.ErrBadRequestFormat
	}
	if b.Username == "" {
		return b, apperr.MissingField("username")
	}
	if b.Password == "" {
		return b, apperr.MissingField("password")
	}
	return b, nil
}

type registerHandler struct {
	users *service.UserService
}

func (registerHandler) Method() string { return "REGISTER" }
func (registerHandler) RequiresAuth() bool { return false }

func (h registerHandler) Handle(ctx context.Context, body json.RawMessage, _ uuid.UUID) (any, error) {
	b, err := decodeCredentials(body)
	if err != nil {
		return nil, err
	}
	token, err := h.users.Register(ctx, b.Username, b.Password)
	if err != nil {
		return nil, err
	}
	return &tokenGrant{Base: ok("user registered successfully"), Token: token}, nil
}

type authHandler struct {
	users *service.UserService
}

func (authHandler) Method() string { return "AUTH" }
func (authHandler) RequiresAuth() bool { return false }

func (h authHandler) Handle(ctx context.Context, body json.RawMessage, _ uuid.UUID) (any, error) {
	b, err := decodeCredentials(body)
	if err != nil {
		return nil, err
	}
	token, err := h.users.Authenticate(ctx, b.Username, b.Password)
	if err != nil {
		return nil, err
	}
	return &tokenGrant{Base: ok("authentication successful"), Token: token}, nil
}
