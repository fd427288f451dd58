package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/query"
	"github.com/rohits-web03/devfolio/internal/repositories"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *repositories.MemoryStore
	tokens   *auth.TokenManager
	auth     *AuthService
	profiles *ProfileService
	projects *ProjectService
	resumes  *fakeResumes
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour, auth.NewMemoryDenylist())
	resumes := &fakeResumes{objects: map[string]bool{}}
	log := zerolog.Nop()
	return &fixture{
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(store.Profiles(), tokens, log),
		profiles: NewProfileService(store.Profiles(), tokens, resumes, log),
		projects: NewProjectService(store.Projects(), store.Profiles(), log),
		resumes:  resumes,
	}
}

func (f *fixture) register(t *testing.T, name, email string) AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), policy.Registration{Name: name, Email: email, Password: "Abcd12!@"})
	require.NoError(t, err)
	return res
}

type fakeResumes struct {
	objects map[string]bool
	err     error
}

func (f *fakeResumes) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://upload.example/" + key, nil
}

func (f *fakeResumes) ObjectExists(_ context.Context, key string) (bool, error) {
	return f.objects[key], f.err
}

func (f *fakeResumes) ObjectURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.example/" + key, nil
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	res := f.register(t, "Ada", "ada@x.com")
	assert.NotEmpty(t, res.Session.Token)
	assert.NotEqual(t, "Abcd12!@", res.Profile.Password)

	_, err := f.auth.Register(ctx, policy.Registration{Name: "Ada", Email: "ada@x.com", Password: "Abcd12!@"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	login, err := f.auth.Login(ctx, policy.Credentials{Email: "ada@x.com", Password: "Abcd12!@"})
	require.NoError(t, err)
	assert.Equal(t, res.Profile.ID, login.Profile.ID)

	claims, err := f.tokens.Verify(ctx, login.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Profile.ID.String(), claims.UserID)
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Ada", "ada@x.com")

	_, err := f.auth.Login(ctx, policy.Credentials{Email: "ada@x.com", Password: "wrong"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
	assert.Equal(t, "Wrong Credentials", apperrors.PublicMessage(err))

	_, err = f.auth.Login(ctx, policy.Credentials{Email: "nobody@x.com", Password: "Abcd12!@"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Equal(t, "User Not Found with this email address!", apperrors.PublicMessage(err))
}

func TestLogoutRevokes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	res := f.register(t, "Ada", "ada@x.com")

	claims, err := f.tokens.Verify(ctx, res.Session.Token)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, claims))

	_, err = f.tokens.Verify(ctx, res.Session.Token)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
}

func TestGoogleSignIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	user := GoogleUser{Email: "Grace@X.com", VerifiedEmail: true, Name: "Grace"}

	_, err := f.auth.GoogleSignIn(ctx, user, FlowLogin)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	res, err := f.auth.GoogleSignIn(ctx, user, FlowRegister)
	require.NoError(t, err)
	assert.Equal(t, "grace@x.com", res.Profile.Email)

	_, err = f.auth.GoogleSignIn(ctx, user, FlowRegister)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	again, err := f.auth.GoogleSignIn(ctx, user, FlowLogin)
	require.NoError(t, err)
	assert.Equal(t, res.Profile.ID, again.Profile.ID)

	_, err = f.auth.GoogleSignIn(ctx, GoogleUser{Email: "x@y.com"}, FlowRegister)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
}

func TestProfileUpdate_PasswordGuard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	res := f.register(t, "Ada", "ada@x.com")

	_, err := policy.DecodeProfileUpdate([]byte(`{"password":"Newpass1!"}`))
	require.True(t, apperrors.Is(err, apperrors.KindValidation))

	stored, err := f.store.Profiles().Get(ctx, res.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Profile.Password, stored.Password)

	u, err := policy.DecodeProfileUpdate([]byte(`{"name":"Ada Lovelace","email":"ADA.L@x.com"}`))
	require.NoError(t, err)
	updated, err := f.profiles.Update(ctx, res.Profile.ID, u)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada.l@x.com", updated.Email)
	assert.Equal(t, res.Profile.Password, updated.Password)
}

func TestProfileUpdate_EmailTaken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ada := f.register(t, "Ada", "ada@x.com")
	f.register(t, "Grace", "grace@x.com")

	email := "grace@x.com"
	_, err := f.profiles.Update(context.Background(), ada.Profile.ID, policy.ProfileUpdate{Email: &email})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestProfilePatches(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "Ada", "ada@x.com").Profile.ID

	p, err := f.profiles.PatchSkills(ctx, id, []string{"go", "sql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, []string(p.Skills))

	_, err = f.profiles.AddEducation(ctx, id, models.Education{Degree: "BSc", Institution: "MIT", StartYear: 2015})
	require.NoError(t, err)
	p, err = f.profiles.AddEducation(ctx, id, models.Education{Degree: "MSc", Institution: "ETH", StartYear: 2019})
	require.NoError(t, err)
	require.Len(t, p.Education, 2)
	assert.Equal(t, "ETH", p.Education[1].Institution)

	p, err = f.profiles.AddWork(ctx, id, models.Work{Company: "ACME", Role: "Engineer", StartDate: "2020-01"})
	require.NoError(t, err)
	assert.Len(t, p.Work, 1)

	github := "https://github.com/ada"
	p, err = f.profiles.PatchLinks(ctx, id, policy.ProfileLinksPatch{Github: &github})
	require.NoError(t, err)
	assert.Equal(t, github, p.Links.Data().Github)

	stored, err := f.store.Profiles().Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Education, 2)
	assert.Equal(t, github, stored.Links.Data().Github)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "Ada", "ada@x.com").Profile.ID

	err := f.profiles.ChangePassword(ctx, id, policy.PasswordChange{CurrentPassword: "nope", NewPassword: "New1!pass"})
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	require.NoError(t, f.profiles.ChangePassword(ctx, id, policy.PasswordChange{CurrentPassword: "Abcd12!@", NewPassword: "New1!pass"}))

	_, err = f.auth.Login(ctx, policy.Credentials{Email: "ada@x.com", Password: "Abcd12!@"})
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
	_, err = f.auth.Login(ctx, policy.Credentials{Email: "ada@x.com", Password: "New1!pass"})
	assert.NoError(t, err)
}

func TestProfileDelete_CascadesAndRevokes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	res := f.register(t, "Ada", "ada@x.com")
	id := res.Profile.ID

	title := "Engine"
	project, err := f.projects.Create(ctx, id, policy.ProjectChanges{Title: &title})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(ctx, res.Session.Token)
	require.NoError(t, err)
	require.NoError(t, f.profiles.Delete(ctx, id, claims))

	_, err = f.projects.Get(ctx, project.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	_, err = f.tokens.Verify(ctx, res.Session.Token)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthenticated))
	_, err = f.auth.Me(ctx, id)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestResumeUpload(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "Ada", "ada@x.com").Profile.ID

	_, err := f.profiles.PresignResume(ctx, id, "image/png")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	upload, err := f.profiles.PresignResume(ctx, id, "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.Key, "resumes/"+id.String()+"/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".pdf"))

	_, err = f.profiles.CompleteResume(ctx, id, upload.Key)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	f.resumes.objects[upload.Key] = true
	p, err := f.profiles.CompleteResume(ctx, id, upload.Key)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/"+upload.Key, p.Links.Data().Resume)

	other := f.register(t, "Grace", "grace@x.com").Profile.ID
	_, err = f.profiles.CompleteResume(ctx, other, upload.Key)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	_, err = f.profiles.CompleteResume(ctx, id, "resumes/"+id.String()+"/../"+other.String()+"/x.pdf")
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
}

func TestResumeUpload_StorageFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.register(t, "Ada", "ada@x.com").Profile.ID
	f.resumes.err = errors.New("r2 down")

	_, err := f.profiles.PresignResume(context.Background(), id, "application/pdf")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestResumeUpload_Disabled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc := NewProfileService(f.store.Profiles(), f.tokens, nil, zerolog.Nop())
	assert.False(t, svc.ResumeUploadsEnabled())

	_, err := svc.PresignResume(context.Background(), uuid.New(), "application/pdf")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestProjectRoundTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ada", "ada@x.com").Profile.ID

	c, err := policy.DecodeProjectCreate([]byte(`{"title":"X","skills":["go","rust"]}`))
	require.NoError(t, err)
	created, err := f.projects.Create(ctx, a, c)
	require.NoError(t, err)

	got, err := f.projects.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got.OwnerID)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, []string{"go", "rust"}, []string(got.Skills))
	assert.Equal(t, models.ProjectLinks{}, got.Links.Data())
}

func TestProjectCreate_UnknownOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	title := "X"
	_, err := f.projects.Create(context.Background(), uuid.New(), policy.ProjectChanges{Title: &title})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestProjectOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ada", "ada@x.com").Profile.ID
	b := f.register(t, "Grace", "grace@x.com").Profile.ID

	title := "Original"
	project, err := f.projects.Create(ctx, a, policy.ProjectChanges{Title: &title})
	require.NoError(t, err)

	_, err = f.projects.Update(ctx, b, project.ID, []byte(`{"title":"Hijacked"}`))
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	_, err = f.projects.Update(ctx, b, project.ID, []byte(`{"title":""}`))
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	err = f.projects.Delete(ctx, b, project.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	_, err = f.projects.PatchSkills(ctx, b, project.ID, []byte(`{"skills":[]}`))
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	_, err = f.projects.PatchLinks(ctx, b, project.ID, []byte(`{"github":"not a url"}`))
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	got, err := f.projects.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	_, err = f.projects.Update(ctx, b, uuid.New(), []byte(`{"title":""}`))
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = f.projects.Update(ctx, a, project.ID, []byte(`{"title":""}`))
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	updated, err := f.projects.Update(ctx, a, project.ID, []byte(`{"title":"Renamed"}`))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, a, updated.OwnerID)

	require.NoError(t, f.projects.Delete(ctx, a, project.ID))
}

func TestProjectMineAndTopSkills(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "Ada", "ada@x.com").Profile.ID
	b := f.register(t, "Grace", "grace@x.com").Profile.ID

	for _, owner := range []uuid.UUID{a, a, b} {
		title := "P"
		skills := []string{"go"}
		_, err := f.projects.Create(ctx, owner, policy.ProjectChanges{Title: &title, Skills: &skills})
		require.NoError(t, err)
	}

	q := query.ProjectQuery{Owner: &b, Page: query.Page{Number: 1, Limit: 10}}
	mine, total, err := f.projects.Mine(ctx, a, q)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, p := range mine {
		assert.Equal(t, a, p.OwnerID)
	}

	top, err := f.projects.TopSkills(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.SkillCount{{Skill: "go", Count: 3}}, top)
}
