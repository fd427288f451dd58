package api

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rohits-web03/devfolio/docs"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/devfolio/internal/api/handlers"
	"github.com/rohits-web03/devfolio/internal/api/middleware"
	"github.com/rohits-web03/devfolio/internal/api/services"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/config"
	"github.com/rohits-web03/devfolio/internal/repositories"
)

// Deps are the collaborators the HTTP surface is built from. Resumes and
// Google are optional; leave them nil to disable those routes.
type Deps struct {
	Config  config.Config
	Store   repositories.Store
	Tokens  *auth.TokenManager
	Resumes services.ResumeStorage
	Google  handlers.GoogleProvider
	Log     zerolog.Logger
}

func SetupRouter(d Deps) (http.Handler, error) {
	log := d.Log
	secureCookie := d.Config.IsProduction()

	authSvc := services.NewAuthService(d.Store.Profiles(), d.Tokens, log)
	profileSvc := services.NewProfileService(d.Store.Profiles(), d.Tokens, d.Resumes, log)
	projectSvc := services.NewProjectService(d.Store.Projects(), d.Store.Profiles(), log)

	authH := handlers.NewAuthHandler(authSvc, d.Google, secureCookie, d.Config.FrontendURL, log)
	profileH := handlers.NewProfileHandler(profileSvc, secureCookie, log)
	projectH := handlers.NewProjectHandler(projectSvc, log)
	healthH := handlers.NewHealthHandler(d.Store)

	throttle, err := middleware.NewIPRateLimiter(d.Config.AuthRateLimit, handlers.TooManyRequests)
	if err != nil {
		return nil, err
	}
	authAuthed := middleware.AuthMiddleware(d.Tokens, handlers.AuthError(log))
	authed := middleware.AuthMiddleware(d.Tokens, handlers.ResourceError(log))

	mux := http.NewServeMux()

	// ---------- OPERATIONAL ----------
	mux.HandleFunc("GET /health", healthH.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /docs/", httpSwagger.WrapHandler)

	// ---------- AUTH ----------
	mux.Handle("POST /api/v1/auth/register", throttle(http.HandlerFunc(authH.Register)))
	mux.Handle("POST /api/v1/auth/login", throttle(http.HandlerFunc(authH.Login)))
	mux.Handle("GET /api/v1/auth/me", authAuthed(http.HandlerFunc(authH.Me)))
	mux.Handle("POST /api/v1/auth/logout", authAuthed(http.HandlerFunc(authH.Logout)))
	if authH.GoogleEnabled() {
		mux.Handle("GET /api/v1/auth/google/login", throttle(http.HandlerFunc(authH.GoogleLogin)))
		mux.HandleFunc("GET /api/v1/auth/google/callback", authH.GoogleCallback)
	}

	// ---------- PROFILES ----------
	mux.HandleFunc("GET /api/v1/profiles", profileH.List)
	mux.HandleFunc("GET /api/v1/profiles/{id}", profileH.Get)
	mux.HandleFunc("GET /api/v1/profile", profileH.GetSingleton)
	mux.Handle("PUT /api/v1/profiles/me", authed(http.HandlerFunc(profileH.UpdateMe)))
	mux.Handle("DELETE /api/v1/profiles/me", authed(http.HandlerFunc(profileH.DeleteMe)))
	mux.Handle("PATCH /api/v1/profiles/me/skills", authed(http.HandlerFunc(profileH.PatchSkills)))
	mux.Handle("POST /api/v1/profiles/me/education", authed(http.HandlerFunc(profileH.AddEducation)))
	mux.Handle("POST /api/v1/profiles/me/work", authed(http.HandlerFunc(profileH.AddWork)))
	mux.Handle("PATCH /api/v1/profiles/me/links", authed(http.HandlerFunc(profileH.PatchLinks)))
	mux.Handle("PUT /api/v1/profiles/me/password", authed(http.HandlerFunc(profileH.ChangePassword)))
	if profileH.ResumeUploadsEnabled() {
		mux.Handle("POST /api/v1/profiles/me/resume/presign", authed(http.HandlerFunc(profileH.PresignResume)))
		mux.Handle("POST /api/v1/profiles/me/resume/complete", authed(http.HandlerFunc(profileH.CompleteResume)))
	}

	// ---------- PROJECTS ----------
	mux.HandleFunc("GET /api/v1/projects", projectH.List)
	mux.HandleFunc("GET /api/v1/projects/search", projectH.Search)
	mux.Handle("GET /api/v1/projects/my", authed(http.HandlerFunc(projectH.Mine)))
	mux.HandleFunc("GET /api/v1/projects/top-skills", projectH.TopSkills)
	mux.HandleFunc("GET /api/v1/projects/{id}", projectH.Get)
	mux.Handle("POST /api/v1/projects", authed(http.HandlerFunc(projectH.Create)))
	mux.Handle("PUT /api/v1/projects/{id}", authed(http.HandlerFunc(projectH.Update)))
	mux.Handle("DELETE /api/v1/projects/{id}", authed(http.HandlerFunc(projectH.Delete)))
	mux.Handle("PATCH /api/v1/projects/{id}/skills", authed(http.HandlerFunc(projectH.PatchSkills)))
	mux.Handle("PATCH /api/v1/projects/{id}/links", authed(http.HandlerFunc(projectH.PatchLinks)))

	log.Info().Msg("router initialized")

	// metrics wraps the mux directly so it sees the matched pattern
	var handler http.Handler = middleware.PrometheusMiddleware(mux)
	handler = cors.New(d.Config.CorsConfig).Handler(handler)
	handler = middleware.NewSecure(middleware.SecureOptions(!d.Config.IsProduction()))(handler)
	handler = chimw.Recoverer(handler)
	handler = middleware.Logger(log)(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)
	return handler, nil
}
