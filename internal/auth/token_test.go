package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("super-secret", time.Hour, nil)
	id := uuid.New()

	s, err := m.Issue(id)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)

	claims, err := m.Verify(context.Background(), s.Token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, s.ID, claims.ID)

	got, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("right-secret", time.Hour, nil)
	other := NewTokenManager("wrong-secret", time.Hour, nil)
	expired := NewTokenManager("right-secret", -time.Minute, nil)

	foreign, err := other.Issue(uuid.New())
	require.NoError(t, err)
	old, err := expired.Issue(uuid.New())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "not-a-uuid",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: uuid.NewString(),
	}).SignedString([]byte("right-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"missing":         "",
		"malformed":       "not.a.jwt",
		"wrong signature": foreign.Token,
		"expired":         old.Token,
		"alg none":        unsigned,
		"bad identity":    badSubject,
		"no expiry":       noExpiry,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(context.Background(), raw)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
		})
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewTokenManager("secret", time.Hour, NewMemoryDenylist())

	s, err := m.Issue(uuid.New())
	require.NoError(t, err)
	claims, err := m.Verify(ctx, s.Token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))

	_, err = m.Verify(ctx, s.Token)
	require.Error(t, err)
	assert.Equal(t, "Token revoked", apperrors.PublicMessage(err))

	fresh, err := m.Issue(uuid.New())
	require.NoError(t, err)
	_, err = m.Verify(ctx, fresh.Token)
	assert.NoError(t, err)
}

func TestRevoke_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewTokenManager("secret", time.Hour, nil)

	s, err := m.Issue(uuid.New())
	require.NoError(t, err)
	claims, err := m.Verify(ctx, s.Token)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, claims))
	_, err = m.Verify(ctx, s.Token)
	assert.NoError(t, err)
}

func TestMemoryDenylist_Expires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()
	d := NewMemoryDenylist()
	d.now = func() time.Time { return now }

	require.NoError(t, d.Revoke(ctx, "a", now.Add(time.Minute)))
	revoked, err := d.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", TokenFromRequest(r))
}

func TestSessionCookie(t *testing.T) {
	t.Parallel()

	s := Session{Token: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	c := SessionCookie(s, true)

	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.InDelta(t, 3600, c.MaxAge, 5)

	cleared := ClearSessionCookie(false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
	assert.False(t, cleared.Secure)
}
