package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	t.Parallel()

	state, err := GenerateState(map[string]string{"flow": "register"})
	require.NoError(t, err)

	data, err := DecodeState(state)
	require.NoError(t, err)
	assert.Equal(t, "register", data["flow"])

	other, err := GenerateState(map[string]string{"flow": "register"})
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestDecodeState_Invalid(t *testing.T) {
	t.Parallel()

	for _, state := range []string{"", "nodot", ".e30", "abc.!!!", "abc.bm90LWpzb24"} {
		_, err := DecodeState(state)
		assert.Error(t, err, state)
	}
}

func TestVerifyState(t *testing.T) {
	t.Parallel()

	state, err := GenerateState(map[string]string{"flow": "login"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state="+state, nil)
	req.AddCookie(stateCookie(state, false))
	rec := httptest.NewRecorder()

	data, err := verifyState(rec, req, false)
	require.NoError(t, err)
	assert.Equal(t, "login", data["flow"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)

	forged := httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?state="+state, nil)
	forged.AddCookie(stateCookie("something-else.e30", false))
	_, err = verifyState(httptest.NewRecorder(), forged, false)
	assert.Error(t, err)
}

func TestErrorEnvelopes(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := zerolog.New(&logs)

	cases := []struct {
		name    string
		respond func(http.ResponseWriter, *http.Request, error)
		err     error
		status  int
		body    map[string]any
		logged  bool
	}{
		{
			name:    "auth validation",
			respond: AuthError(log),
			err:     apperrors.Validation("Please enter all fields"),
			status:  http.StatusBadRequest,
			body:    map[string]any{"message": "Please enter all fields"},
		},
		{
			name:    "resource forbidden",
			respond: ResourceError(log),
			err:     apperrors.Forbidden("You are not authorized to delete this project"),
			status:  http.StatusForbidden,
			body:    map[string]any{"success": false, "message": "You are not authorized to delete this project"},
		},
		{
			name:    "resource conflict",
			respond: ResourceError(log),
			err:     apperrors.Conflict("User already exists with this email"),
			status:  http.StatusConflict,
			body:    map[string]any{"success": false, "message": "User already exists with this email"},
		},
		{
			name:    "internal detail hidden",
			respond: ResourceError(log),
			err:     errors.New("pq: relation \"projects\" does not exist"),
			status:  http.StatusInternalServerError,
			body:    map[string]any{"success": false, "message": "Internal Server Error"},
			logged:  true,
		},
	}

	for _, tc := range cases {
		logs.Reset()
		rec := httptest.NewRecorder()
		tc.respond(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tc.err)

		assert.Equal(t, tc.status, rec.Code, tc.name)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), tc.name)
		assert.Equal(t, tc.body, body, tc.name)
		if tc.logged {
			assert.Contains(t, logs.String(), "does not exist", tc.name)
		} else {
			assert.Empty(t, logs.String(), tc.name)
		}
	}
}

func TestReadBody_TooLarge(t *testing.T) {
	t.Parallel()

	body := strings.NewReader(`{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", body)
	_, err := readBody(httptest.NewRecorder(), req)
	require.Error(t, err)
	assert.Equal(t, "Request body too large", apperrors.PublicMessage(err))
}

func TestPathID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/zzz", nil)
	req.SetPathValue("id", "zzz")
	_, err := pathID(req, "project")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, "Invalid project id", apperrors.PublicMessage(err))
}
