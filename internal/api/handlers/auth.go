package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/rohits-web03/devfolio/internal/api/middleware"
	"github.com/rohits-web03/devfolio/internal/api/services"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/utils"
	"github.com/rs/zerolog"
)

// GoogleProvider is the OAuth side of Google sign-in.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchUser(ctx context.Context, code string) (services.GoogleUser, error)
}

type AuthHandler struct {
	auth         *services.AuthService
	google       GoogleProvider
	secureCookie bool
	frontendURL  string
	log          zerolog.Logger
	fail         middleware.ErrorResponder
}

// NewAuthHandler builds the auth routes. google may be nil when Google
// sign-in is not configured.
func NewAuthHandler(svc *services.AuthService, google GoogleProvider, secureCookie bool, frontendURL string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         svc,
		google:       google,
		secureCookie: secureCookie,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		log:          log,
		fail:         AuthError(log),
	}
}

func (h *AuthHandler) GoogleEnabled() bool { return h.google != nil }

func (h *AuthHandler) startSession(w http.ResponseWriter, res services.AuthResult) {
	http.SetCookie(w, auth.SessionCookie(res.Session, h.secureCookie))
}

// Register godoc
// @Summary Register a profile
// @Description Creates a profile and starts a session (cookie and token)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body policy.Registration true "Name, email and password"
// @Success 201 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ErrorBody
// @Failure 409 {object} utils.ErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := policy.DecodeRegistration(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), in)
	middleware.RecordAuthAttempt("register", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.startSession(w, res)
	utils.JSONResponse(w, http.StatusCreated, utils.ProfileEnvelope{
		Success: true,
		Message: "User registered successfully",
		Profile: utils.NewProfileView(res.Profile),
		Token:   res.Session.Token,
	})
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body policy.Credentials true "Email and password"
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Failure 429 {object} utils.ErrorBody
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := policy.DecodeLogin(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), in)
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.startSession(w, res)
	utils.JSONResponse(w, http.StatusOK, utils.ProfileEnvelope{
		Success: true,
		Message: "Login successful",
		Profile: utils.NewProfileView(res.Profile),
		Token:   res.Session.Token,
	})
}

// Me godoc
// @Summary Current profile
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 401 {object} utils.ErrorBody
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.auth.Me(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.ProfileEnvelope{
		Success: true,
		Profile: utils.NewProfileView(p),
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie and revokes the token
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.ErrorBody
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.auth.Logout(r.Context(), claims); err != nil {
		h.fail(w, r, err)
		return
	}

	http.SetCookie(w, auth.ClearSessionCookie(h.secureCookie))
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Param redirect query string false "login or register"
// @Success 307
// @Router /api/v1/auth/google/login [get]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	flow := r.URL.Query().Get("redirect") // "login" or "register"
	if flow != services.FlowRegister {
		flow = services.FlowLogin
	}

	state, err := GenerateState(map[string]string{"flow": flow})
	if err != nil {
		h.fail(w, r, apperrors.Internal(err))
		return
	}

	http.SetCookie(w, stateCookie(state, h.secureCookie))
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback godoc
// @Summary Finish Google sign-in
// @Description Starts a session and redirects to the frontend
// @Tags Auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 307
// @Failure 400 {object} utils.ErrorBody
// @Router /api/v1/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateData, err := verifyState(w, r, h.secureCookie)
	if err != nil {
		h.fail(w, r, apperrors.Validation("Invalid OAuth state"))
		return
	}
	flow := stateData["flow"]

	user, err := h.google.FetchUser(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Warn().Err(err).Msg("google sign-in failed")
		h.redirect(w, r, "/login", "error", "oauth_failed")
		return
	}

	res, err := h.auth.GoogleSignIn(r.Context(), user, flow)
	middleware.RecordAuthAttempt("google", err == nil)
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.KindConflict):
		h.redirect(w, r, "/login", "error", "user_already_exists")
		return
	case apperrors.Is(err, apperrors.KindNotFound):
		h.redirect(w, r, "/register", "error", "user_not_found")
		return
	case apperrors.Is(err, apperrors.KindInternal):
		h.fail(w, r, err)
		return
	default:
		h.redirect(w, r, "/login", "error", "oauth_failed")
		return
	}

	h.startSession(w, res)
	h.redirect(w, r, "/", "status", "success_"+flow)
}

func (h *AuthHandler) redirect(w http.ResponseWriter, r *http.Request, path, key, value string) {
	target := h.frontendURL + path + "?" + url.Values{key: {value}}.Encode()
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
