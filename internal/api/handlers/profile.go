package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rohits-web03/devfolio/internal/api/middleware"
	"github.com/rohits-web03/devfolio/internal/api/services"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/auth"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/query"
	"github.com/rohits-web03/devfolio/internal/utils"
	"github.com/rs/zerolog"
)

type ProfileHandler struct {
	profiles     *services.ProfileService
	secureCookie bool
	now          func() time.Time
	fail         middleware.ErrorResponder
}

func NewProfileHandler(svc *services.ProfileService, secureCookie bool, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:     svc,
		secureCookie: secureCookie,
		now:          time.Now,
		fail:         ResourceError(log),
	}
}

func (h *ProfileHandler) ResumeUploadsEnabled() bool { return h.profiles.ResumeUploadsEnabled() }

func (h *ProfileHandler) respond(w http.ResponseWriter, status int, message string, p *models.Profile) {
	utils.JSONResponse(w, status, utils.ProfileEnvelope{
		Success: true,
		Message: message,
		Profile: utils.NewProfileView(p),
	})
}

// ListProfiles godoc
// @Summary List profiles
// @Tags Profiles
// @Produce json
// @Param q query string false "Text search over name, institutions and companies"
// @Param search query string false "Alias of q"
// @Param skills query string false "Comma separated skills, any match"
// @Param page query int false "Page, default 1"
// @Param limit query int false "Page size, default 10, max 100"
// @Param sortBy query string false "createdAt, updatedAt or name"
// @Param order query string false "asc or desc"
// @Success 200 {object} utils.ProfileList
// @Router /api/v1/profiles [get]
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	q := query.ParseProfileQuery(r.URL.Query())
	profiles, total, err := h.profiles.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.ProfileList{
		Success:     true,
		Profiles:    utils.NewProfileViews(profiles),
		TotalPages:  q.Page.TotalPages(total),
		CurrentPage: q.Page.Number,
		Total:       total,
	})
}

// GetProfile godoc
// @Summary Get a profile
// @Tags Profiles
// @Produce json
// @Param id path string true "Profile id"
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 404 {object} utils.ResourceError
// @Router /api/v1/profiles/{id} [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "profile")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "", p)
}

// GetSingleton godoc
// @Summary Get the only profile (deprecated)
// @Description Kept for single-profile deployments. Use /api/v1/profiles/{id}.
// @Tags Profiles
// @Produce json
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 404 {object} utils.ResourceError
// @Failure 409 {object} utils.ResourceError
// @Deprecated
// @Router /api/v1/profile [get]
func (h *ProfileHandler) GetSingleton(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Deprecation", "true")
	p, err := h.profiles.Singleton(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Link", fmt.Sprintf("</api/v1/profiles/%s>; rel=\"successor-version\"", p.ID))
	h.respond(w, http.StatusOK, "", p)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Description Accepts name, email, education, skills, work and links. Password is rejected.
// @Tags Profiles
// @Accept json
// @Produce json
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ResourceError
// @Failure 401 {object} utils.ResourceError
// @Failure 409 {object} utils.ResourceError
// @Router /api/v1/profiles/me [put]
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := policy.DecodeProfileUpdate(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.Update(r.Context(), id, u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Profile updated successfully", p)
}

// DeleteMe godoc
// @Summary Delete the caller's profile
// @Description Deletes the profile and its projects and ends the session
// @Tags Profiles
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.ResourceError
// @Router /api/v1/profiles/me [delete]
func (h *ProfileHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.profiles.Delete(r.Context(), id, claims); err != nil {
		h.fail(w, r, err)
		return
	}
	http.SetCookie(w, auth.ClearSessionCookie(h.secureCookie))
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Profile deleted successfully",
	})
}

// PatchSkills godoc
// @Summary Replace the caller's skills
// @Tags Profiles
// @Accept json
// @Produce json
// @Success 200 {object} utils.SkillsEnvelope
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/profiles/me/skills [patch]
func (h *ProfileHandler) PatchSkills(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	skills, err := policy.DecodeSkills(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.PatchSkills(r.Context(), id, skills)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.SkillsEnvelope{
		Success: true,
		Message: "Skills updated successfully",
		Skills:  p.Skills,
	})
}

// AddEducation godoc
// @Summary Append an education entry
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body models.Education true "Education entry"
// @Success 201 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/profiles/me/education [post]
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := policy.DecodeEducation(body, h.now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.AddEducation(r.Context(), id, e)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, "Education added successfully", p)
}

// AddWork godoc
// @Summary Append a work entry
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body models.Work true "Work entry"
// @Success 201 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/profiles/me/work [post]
func (h *ProfileHandler) AddWork(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	work, err := policy.DecodeWork(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.AddWork(r.Context(), id, work)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, "Work experience added successfully", p)
}

// PatchLinks godoc
// @Summary Update the caller's links
// @Description Merges github, linkedin, portfolio and resume. An empty string clears a link.
// @Tags Profiles
// @Accept json
// @Produce json
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/profiles/me/links [patch]
func (h *ProfileHandler) PatchLinks(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patch, err := policy.DecodeProfileLinks(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.PatchLinks(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Links updated successfully", p)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body policy.PasswordChange true "Current and new password"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/profiles/me/password [put]
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	change, err := policy.DecodePasswordChange(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.profiles.ChangePassword(r.Context(), id, change); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Password updated successfully",
	})
}

type resumePresignRequest struct {
	ContentType string `json:"contentType"`
}

type resumeCompleteRequest struct {
	Key string `json:"key"`
}

// PresignResume godoc
// @Summary Get an upload URL for a resume
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body resumePresignRequest true "PDF or Word content type"
// @Success 200 {object} utils.Payload{data=services.ResumeUpload}
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/profiles/me/resume/presign [post]
func (h *ProfileHandler) PresignResume(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req resumePresignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, apperrors.Validation("Invalid input"))
		return
	}
	upload, err := h.profiles.PresignResume(r.Context(), id, req.ContentType)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data:    upload,
	})
}

// CompleteResume godoc
// @Summary Attach an uploaded resume
// @Description Sets links.resume once the uploaded object exists
// @Tags Profiles
// @Accept json
// @Produce json
// @Param body body resumeCompleteRequest true "Key returned by presign"
// @Success 200 {object} utils.ProfileEnvelope
// @Failure 400 {object} utils.ResourceError
// @Failure 403 {object} utils.ResourceError
// @Router /api/v1/profiles/me/resume/complete [post]
func (h *ProfileHandler) CompleteResume(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req resumeCompleteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(w, r, apperrors.Validation("Invalid input"))
		return
	}
	p, err := h.profiles.CompleteResume(r.Context(), id, req.Key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Resume uploaded successfully", p)
}
