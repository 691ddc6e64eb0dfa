package service

import (
	"time"

	"recomm/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string        // e.g. "reComm"
	TTL        time.Duration // e.g. 12h
	SigningKey []byte        // HS256 secret
}

type TokenClaims struct {
	UUID string `json:"uuid"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the HS256 bearer tokens that carry a
// user's identity. Every verification failure collapses to Unauthorized so
// no detail about the failure mode leaks to clients.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

func (t *TokenService) Issue(userID uuid.UUID) (string, error) {
	now := t.now().UTC()
	claims := TokenClaims{
		UUID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

// Verify checks signature, issuer and expiry, and returns the subject
// identity embedded in the token.
func (t *TokenService) Verify(tokenStr string) (uuid.UUID, error) {
	claims := &TokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	if claims.Issuer != t.cfg.Issuer {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UUID)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}
