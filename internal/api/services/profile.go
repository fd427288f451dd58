package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/query"
	"github.com/rohits-web03/devfolio/internal/repositories"
	"github.com/rohits-web03/devfolio/internal/utils"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

const (
	resumeUploadTTL = 15 * time.Minute
	// longest lifetime a SigV4 presigned URL may have
	resumeLinkTTL = 7 * 24 * time.Hour
)

var resumeExtensions = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// ResumeStorage is the object store resumes are uploaded to.
type ResumeStorage interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	ObjectURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

type ResumeUpload struct {
	UploadURL   string    `json:"uploadUrl"`
	Key         string    `json:"key"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ProfileService struct {
	profiles repositories.ProfileRepository
	tokens   *auth.TokenManager
	resumes  ResumeStorage // nil when uploads are not configured
	log      zerolog.Logger
	now      func() time.Time
}

func NewProfileService(profiles repositories.ProfileRepository, tokens *auth.TokenManager, resumes ResumeStorage, log zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, tokens: tokens, resumes: resumes, log: log, now: time.Now}
}

func (s *ProfileService) List(ctx context.Context, q query.ProfileQuery) ([]models.Profile, int64, error) {
	return s.profiles.List(ctx, q)
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.profiles.Get(ctx, id)
}

// Singleton serves the deprecated single-profile route.
func (s *ProfileService) Singleton(ctx context.Context) (*models.Profile, error) {
	return s.profiles.Singleton(ctx)
}

// own loads the caller's profile and asserts it belongs to the caller.
func (s *ProfileService) own(ctx context.Context, identity uuid.UUID, action policy.Action) (*models.Profile, error) {
	p, err := s.profiles.Get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeProfile(identity, p, action); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, identity uuid.UUID, u policy.ProfileUpdate) (*models.Profile, error) {
	p, err := s.own(ctx, identity, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if u.Email != nil && *u.Email != p.Email {
		if _, err := s.profiles.GetByEmail(ctx, *u.Email); err == nil {
			return nil, apperrors.Conflict("User already exists with this email")
		} else if !apperrors.Is(err, apperrors.KindNotFound) {
			return nil, err
		}
	}
	u.Apply(p)
	if err := s.profiles.Update(ctx, p, u.Columns()...); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the caller's profile with its projects and revokes the
// session used to do it.
func (s *ProfileService) Delete(ctx context.Context, identity uuid.UUID, claims *auth.Claims) error {
	p, err := s.own(ctx, identity, policy.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.profiles.Delete(ctx, p.ID); err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		s.log.Warn().Err(err).Str("profile_id", p.ID.String()).Msg("failed to revoke session of deleted profile")
	}
	s.log.Info().Str("profile_id", p.ID.String()).Msg("profile deleted")
	return nil
}

func (s *ProfileService) PatchSkills(ctx context.Context, identity uuid.UUID, skills []string) (*models.Profile, error) {
	p, err := s.own(ctx, identity, policy.ActionPatchSkills)
	if err != nil {
		return nil, err
	}
	p.Skills = skills
	if err := s.profiles.Update(ctx, p, "skills"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) AddEducation(ctx context.Context, identity uuid.UUID, e models.Education) (*models.Profile, error) {
	p, err := s.own(ctx, identity, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	p.Education = append(p.Education, e)
	if err := s.profiles.Update(ctx, p, "education"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) AddWork(ctx context.Context, identity uuid.UUID, w models.Work) (*models.Profile, error) {
	p, err := s.own(ctx, identity, policy.ActionUpdate)
	if err != nil {
		return nil, err
	}
	p.Work = append(p.Work, w)
	if err := s.profiles.Update(ctx, p, "work"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) PatchLinks(ctx context.Context, identity uuid.UUID, patch policy.ProfileLinksPatch) (*models.Profile, error) {
	p, err := s.own(ctx, identity, policy.ActionPatchLinks)
	if err != nil {
		return nil, err
	}
	p.Links = datatypes.NewJSONType(patch.Merge(p.Links.Data()))
	if err := s.profiles.Update(ctx, p, "links"); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) ChangePassword(ctx context.Context, identity uuid.UUID, change policy.PasswordChange) error {
	p, err := s.own(ctx, identity, policy.ActionUpdate)
	if err != nil {
		return err
	}
	ok, err := auth.ComparePassword(p.Password, change.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation("Current password is incorrect")
	}
	hashed, err := auth.HashPassword(change.NewPassword)
	if err != nil {
		return err
	}
	p.Password = hashed
	return s.profiles.Update(ctx, p, "password")
}

func (s *ProfileService) ResumeUploadsEnabled() bool { return s.resumes != nil }

func resumePrefix(identity uuid.UUID) string {
	return fmt.Sprintf("resumes/%s/", identity)
}

// PresignResume hands out an upload URL for a new resume object under the
// caller's prefix.
func (s *ProfileService) PresignResume(ctx context.Context, identity uuid.UUID, contentType string) (ResumeUpload, error) {
	if s.resumes == nil {
		return ResumeUpload{}, apperrors.NotFound("Resume uploads are not configured")
	}
	ext, ok := resumeExtensions[contentType]
	if !ok {
		return ResumeUpload{}, apperrors.Validation("Resume must be a PDF or Word document")
	}
	if _, err := s.own(ctx, identity, policy.ActionUpdate); err != nil {
		return ResumeUpload{}, err
	}

	key, err := utils.ObjectKey(resumePrefix(identity), ext)
	if err != nil {
		return ResumeUpload{}, apperrors.Internal(err)
	}
	url, err := s.resumes.PresignPut(ctx, key, contentType, resumeUploadTTL)
	if err != nil {
		return ResumeUpload{}, apperrors.Internal(err)
	}
	return ResumeUpload{
		UploadURL:   url,
		Key:         key,
		ContentType: contentType,
		ExpiresAt:   s.now().Add(resumeUploadTTL),
	}, nil
}

// CompleteResume points links.resume at an uploaded object once it exists.
func (s *ProfileService) CompleteResume(ctx context.Context, identity uuid.UUID, key string) (*models.Profile, error) {
	if s.resumes == nil {
		return nil, apperrors.NotFound("Resume uploads are not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" || path.Clean(key) != key || !strings.HasPrefix(key, resumePrefix(identity)) {
		return nil, apperrors.Forbidden("You are not authorized to use this upload")
	}
	p, err := s.own(ctx, identity, policy.ActionPatchLinks)
	if err != nil {
		return nil, err
	}

	exists, err := s.resumes.ObjectExists(ctx, key)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !exists {
		return nil, apperrors.Validation("Uploaded file not found")
	}
	url, err := s.resumes.ObjectURL(ctx, key, resumeLinkTTL)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	links := p.Links.Data()
	links.Resume = url
	p.Links = datatypes.NewJSONType(links)
	if err := s.profiles.Update(ctx, p, "links"); err != nil {
		return nil, err
	}
	return p, nil
}
