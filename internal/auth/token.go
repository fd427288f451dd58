// Package auth issues and verifies session tokens.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/utils"
)

// JWT Claims struct
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Identity parses the userId claim.
func (c *Claims) Identity() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, apperrors.Unauthenticated("Unauthorized")
	}
	return id, nil
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	ID        string
}

type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist // nil when revocation is off
	now      func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration, denylist Denylist) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
}

// Issue signs a new HS256 session token for identity.
func (m *TokenManager) Issue(identity uuid.UUID) (Session, error) {
	jti, err := utils.GenerateSecureToken(utils.SessionIDBytes)
	if err != nil {
		return Session{}, apperrors.Internal(err)
	}

	now := m.now()
	expiration := now.Add(m.ttl)
	claims := &Claims{
		UserID: identity.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.String(),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, apperrors.Internal(err)
	}
	return Session{Token: signed, ExpiresAt: expiration, ID: jti}, nil
}

// Verify checks signature, algorithm, expiry and revocation. It never touches
// the profile store.
func (m *TokenManager) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.KindUnauthenticated, "Token expired", err)
		}
		return nil, apperrors.Wrap(apperrors.KindUnauthenticated, "Unauthorized", err)
	}
	if !token.Valid {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	if _, err := claims.Identity(); err != nil {
		return nil, err
	}

	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if revoked {
			return nil, apperrors.Unauthenticated("Token revoked")
		}
	}
	return claims, nil
}

// Revoke denylists the token until its natural expiry. A no-op when
// revocation is off.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.denylist == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if !claims.ExpiresAt.After(m.now()) {
		return nil
	}
	return m.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }
