package handlers

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rohits-web03/devfolio/internal/utils"
)

const (
	stateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

// GenerateState creates a random state string carrying metadata such as the
// sign-in flow ("login" or "register").
func GenerateState(data map[string]string) (string, error) {
	randomPart, err := utils.GenerateSecureToken(utils.SessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	payloadBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state data: %w", err)
	}
	payloadPart := base64.RawURLEncoding.EncodeToString(payloadBytes)

	// randomPart.payloadPart
	return fmt.Sprintf("%s.%s", randomPart, payloadPart), nil
}

// DecodeState decodes the metadata back from the state string
func DecodeState(state string) (map[string]string, error) {
	parts := strings.Split(state, ".")
	if len(parts) != 2 || parts[0] == "" {
		return nil, fmt.Errorf("invalid state format")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode state payload: %w", err)
	}

	var data map[string]string
	if err := json.Unmarshal(payloadBytes, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state JSON: %w", err)
	}

	return data, nil
}

func stateCookie(state string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/v1/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// verifyState checks the callback state against the cookie set at login and
// returns its metadata. The cookie is single use.
func verifyState(w http.ResponseWriter, r *http.Request, secure bool) (map[string]string, error) {
	state := r.FormValue("state")

	expired := stateCookie("", secure)
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return nil, fmt.Errorf("state mismatch")
	}
	return DecodeState(state)
}
