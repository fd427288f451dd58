package auth

import (
	"errors"
	"unicode"

	"github.com/rohits-web03/devfolio/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return string(hashed), nil
}

// ComparePassword reports whether password matches hash. Mismatches are not
// errors, anything else from bcrypt is.
func ComparePassword(hash, password string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrHashTooShort):
		return false, nil
	default:
		return false, apperrors.Internal(err)
	}
}

// ValidatePassword enforces the password policy: minimum length plus at least
// one upper case letter, lower case letter, digit and special character.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.Validationf("Password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return apperrors.Validationf("Password must be at most %d bytes long", MaxPasswordLength)
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return apperrors.Validation("Password must contain at least one uppercase letter, one lowercase letter, one number and one special character")
	}
	return nil
}
