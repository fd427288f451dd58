package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordErr(got *error) ErrorResponder {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		*got = err
		w.WriteHeader(apperrors.StatusOf(err))
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenManager("secret", time.Hour, auth.NewMemoryDenylist())
	id := uuid.New()
	session, err := tokens.Issue(id)
	require.NoError(t, err)

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		seen, ok = IdentityFrom(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("cookie", func(t *testing.T) {
		var got error
		h := AuthMiddleware(tokens, recordErr(&got))(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(auth.SessionCookie(session, false))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, got)
		assert.Equal(t, id, seen)
	})

	t.Run("bearer", func(t *testing.T) {
		var got error
		h := AuthMiddleware(tokens, recordErr(&got))(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		var got error
		h := AuthMiddleware(tokens, recordErr(&got))(next)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.True(t, apperrors.Is(got, apperrors.KindUnauthenticated))
	})

	t.Run("garbage token", func(t *testing.T) {
		var got error
		h := AuthMiddleware(tokens, recordErr(&got))(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenManager("secret", time.Hour, auth.NewMemoryDenylist())
	session, err := tokens.Issue(uuid.New())
	require.NoError(t, err)
	claims, err := tokens.Verify(t.Context(), session.Token)
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(t.Context(), claims))

	var got error
	called := false
	h := AuthMiddleware(tokens, recordErr(&got))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(auth.SessionCookie(session, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token revoked", apperrors.PublicMessage(got))
}

func TestIdentityFrom_Empty(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFrom(t.Context())
	assert.False(t, ok)

	ctx := WithClaims(t.Context(), &auth.Claims{UserID: "nope"})
	_, ok = IdentityFrom(ctx)
	assert.False(t, ok)
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := zerolog.New(&buf)

	h := chimw.RequestID(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/brew", line["path"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.EqualValues(t, len("short and stout"), line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}

func TestPrometheusMiddleware(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	h := PrometheusMiddleware(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets/42", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpRequestDuration), 1)
}

func TestRecordAuthAttempt(t *testing.T) {
	t.Parallel()

	counter := authAttempts.WithLabelValues("test-event", "true")
	before := testutil.ToFloat64(counter)
	RecordAuthAttempt("test-event", true)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNewIPRateLimiter(t *testing.T) {
	t.Parallel()

	limited, err := NewIPRateLimiter("2-M", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	require.NoError(t, err)

	h := limited(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestNewIPRateLimiter_Config(t *testing.T) {
	t.Parallel()

	off, err := NewIPRateLimiter("", nil)
	require.NoError(t, err)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, off(next))

	_, err = NewIPRateLimiter("lots-per-day", nil)
	assert.Error(t, err)
}

func TestSecureHeaders(t *testing.T) {
	t.Parallel()

	h := NewSecure(SecureOptions(false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}
