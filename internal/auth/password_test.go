package auth

import (
	"strings"
	"testing"

	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secr3t!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pass", hash)

	ok, err := ComparePassword(hash, "Secr3t!pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = HashPassword("Aa1!" + strings.Repeat("x", MaxPasswordLength-4))
	require.NoError(t, err)

	ok, err = ComparePassword("", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		valid    bool
	}{
		{"Ab1!", false},
		{"abcdef1!", false},
		{"ABCDEF1!", false},
		{"Abcdefg!", false},
		{"Abcdefg1", false},
		{"Abcde1!", true},
		{"Pässw0rd#", true},
		{"Aa1!" + strings.Repeat("x", MaxPasswordLength-4), true},
		{"Aa1!" + strings.Repeat("x", MaxPasswordLength-3), false},
	}

	for _, tt := range tests {
		t.Run(tt.password[:min(len(tt.password), 12)], func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.Is(err, apperrors.KindValidation))
		})
	}
}
