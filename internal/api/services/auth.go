package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/repositories"
	"github.com/rohits-web03/devfolio/internal/utils"
	"github.com/rs/zerolog"
)

// AuthResult is what register, login and Google sign-in hand back: the
// profile and a freshly issued session.
type AuthResult struct {
	Profile *models.Profile
	Session auth.Session
}

type AuthService struct {
	profiles repositories.ProfileRepository
	tokens   *auth.TokenManager
	log      zerolog.Logger
}

func NewAuthService(profiles repositories.ProfileRepository, tokens *auth.TokenManager, log zerolog.Logger) *AuthService {
	return &AuthService{profiles: profiles, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, in policy.Registration) (AuthResult, error) {
	if _, err := s.profiles.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, apperrors.Conflict("User already exists with this email")
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return AuthResult{}, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}
	p := &models.Profile{Name: in.Name, Email: in.Email, Password: hashed}
	if err := s.profiles.Create(ctx, p); err != nil {
		return AuthResult{}, err
	}
	s.log.Info().Str("profile_id", p.ID.String()).Msg("profile registered")
	return s.issue(p)
}

func (s *AuthService) Login(ctx context.Context, in policy.Credentials) (AuthResult, error) {
	p, err := s.profiles.GetByEmail(ctx, in.Email)
	if apperrors.Is(err, apperrors.KindNotFound) {
		return AuthResult{}, apperrors.Validation("User Not Found with this email address!")
	}
	if err != nil {
		return AuthResult{}, err
	}

	ok, err := auth.ComparePassword(p.Password, in.Password)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, apperrors.Unauthenticated("Wrong Credentials")
	}
	return s.issue(p)
}

func (s *AuthService) Me(ctx context.Context, identity uuid.UUID) (*models.Profile, error) {
	return s.profiles.Get(ctx, identity)
}

// Logout revokes the presented token. The cookie is cleared by the handler.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

// GoogleSignIn logs in or registers the profile behind a verified Google
// account. flow is "login" or "register".
func (s *AuthService) GoogleSignIn(ctx context.Context, user GoogleUser, flow string) (AuthResult, error) {
	email, err := policy.NormalizeEmail(user.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if !user.VerifiedEmail {
		return AuthResult{}, apperrors.Unauthenticated("Google account email is not verified")
	}

	existing, err := s.profiles.GetByEmail(ctx, email)
	switch {
	case err == nil && flow == FlowRegister:
		return AuthResult{}, apperrors.Conflict("User already exists with this email")
	case err == nil:
		return s.issue(existing)
	case !apperrors.Is(err, apperrors.KindNotFound):
		return AuthResult{}, err
	case flow != FlowRegister:
		return AuthResult{}, apperrors.NotFound("User Not Found with this email address!")
	}

	// Google-authenticated profiles get an unguessable password.
	random, err := utils.GenerateSecureToken(utils.SecretBytes)
	if err != nil {
		return AuthResult{}, apperrors.Internal(err)
	}
	hashed, err := auth.HashPassword(random)
	if err != nil {
		return AuthResult{}, err
	}
	name := user.Name
	if name == "" {
		name = email
	}
	p := &models.Profile{Name: name, Email: email, Password: hashed}
	if err := s.profiles.Create(ctx, p); err != nil {
		return AuthResult{}, err
	}
	s.log.Info().Str("profile_id", p.ID.String()).Msg("profile registered with google")
	return s.issue(p)
}

func (s *AuthService) issue(p *models.Profile) (AuthResult, error) {
	session, err := s.tokens.Issue(p.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Profile: p, Session: session}, nil
}
