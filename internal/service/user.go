package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recomm/internal/apperr"
	"recomm/internal/domain"
	"recomm/internal/observability/metrics"
	"recomm/internal/store"

	"github.com/google/uuid"
)

// UserService registers and authenticates users and hands out bearer tokens.
type UserService struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenService
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(users UserStore, hasher *PasswordHasher, tokens *TokenService, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates the user and returns a fresh token, so registering also
// logs the client in.
func (s *UserService) Register(ctx context.Context, username, password string) (string, error) {
	result := "success"
	defer func() {
		metrics.AuthAttemptsTotal.WithLabelValues("register", result).Inc()
	}()

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		result = "failure"
		return "", err
	}
	if taken {
		result = "failure"
		return "", apperr.ErrUserAlreadyExists
	}

	digest, salt, err := s.hasher.Hash(password)
	if err != nil {
		result = "failure"
		return "", err
	}

	usr := &domain.User{
		ID:             uuid.New(),
		Username:       username,
		PasswordDigest: digest,
		Salt:           salt,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.users.Create(ctx, usr); err != nil {
		result = "failure"
		return "", err
	}

	s.logger.Info("registered user", "user_id", usr.ID, "username", username)
	return s.tokens.Issue(usr.ID)
}

// Authenticate verifies the password and returns a fresh token. Lookup and
// password failures collapse to one error so usernames cannot be probed.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	result := "success"
	defer func() {
		metrics.AuthAttemptsTotal.WithLabelValues("auth", result).Inc()
	}()

	usr, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", apperr.ErrInvalidCredentials
		}
		return "", err
	}
	if !s.hasher.Verify(password, usr.PasswordDigest, usr.Salt) {
		result = "failure"
		return "", apperr.ErrInvalidCredentials
	}

	s.logger.Info("authenticated user", "user_id", usr.ID, "username", username)
	return s.tokens.Issue(usr.ID)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	usr, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return usr, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	usr, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return usr, nil
}
