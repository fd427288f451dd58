package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"internal", Internal(errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("load: %w", NotFound("Project not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	t.Parallel()

	err := Internal(errors.New("pq: connection refused"))
	assert.Equal(t, "Internal Server Error", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, "Wrong Credentials", PublicMessage(Unauthenticated("Wrong Credentials")))
	assert.Equal(t, "Internal Server Error", PublicMessage(errors.New("raw")))
}

func TestIs(t *testing.T) {
	t.Parallel()

	assert.True(t, Is(Forbidden("x"), KindForbidden))
	assert.False(t, Is(Forbidden("x"), KindNotFound))
	assert.False(t, Is(nil, KindInternal))
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := Wrap(KindConflict, "email taken", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindConflict, KindOf(err))
}
