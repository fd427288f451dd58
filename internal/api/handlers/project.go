package handlers

import (
	"net/http"

	"github.com/rohits-web03/devfolio/internal/api/middleware"
	"github.com/rohits-web03/devfolio/internal/api/services"
	"github.com/rohits-web03/devfolio/internal/models"
	"github.com/rohits-web03/devfolio/internal/policy"
	"github.com/rohits-web03/devfolio/internal/query"
	"github.com/rohits-web03/devfolio/internal/utils"
	"github.com/rs/zerolog"
)

type ProjectHandler struct {
	projects *services.ProjectService
	fail     middleware.ErrorResponder
}

func NewProjectHandler(svc *services.ProjectService, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{projects: svc, fail: ResourceError(log)}
}

func (h *ProjectHandler) respond(w http.ResponseWriter, status int, message string, p *models.Project) {
	utils.JSONResponse(w, status, utils.ProjectEnvelope{
		Success: true,
		Message: message,
		Project: utils.NewProjectView(p),
	})
}

func (h *ProjectHandler) list(w http.ResponseWriter, projects []models.Project, total int64, q query.ProjectQuery, criteria *utils.SearchCriteria) {
	utils.JSONResponse(w, http.StatusOK, utils.ProjectList{
		Success:        true,
		Projects:       utils.NewProjectViews(projects),
		TotalPages:     q.Page.TotalPages(total),
		CurrentPage:    q.Page.Number,
		Total:          total,
		SearchCriteria: criteria,
	})
}

// ListProjects godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param q query string false "Text search over title and description"
// @Param search query string false "Alias of q"
// @Param skills query string false "Comma separated skills, any match"
// @Param owner query string false "Owner profile id"
// @Param page query int false "Page, default 1"
// @Param limit query int false "Page size, default 10, max 100"
// @Param sortBy query string false "createdAt, updatedAt or title"
// @Param order query string false "asc or desc"
// @Success 200 {object} utils.ProjectList
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := query.ParseProjectQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	projects, total, err := h.projects.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, projects, total, q, nil)
}

// SearchProjects godoc
// @Summary Search projects by skills
// @Description Returns projects having at least minSkills of the requested skills
// @Tags Projects
// @Produce json
// @Param skills query string true "Comma separated skills"
// @Param minSkills query int false "Minimum matches, default 1"
// @Param page query int false "Page, default 1"
// @Param limit query int false "Page size, default 10, max 100"
// @Param sortBy query string false "createdAt, updatedAt or title"
// @Param order query string false "asc or desc"
// @Success 200 {object} utils.ProjectList
// @Failure 400 {object} utils.ResourceError
// @Router /api/v1/projects/search [get]
func (h *ProjectHandler) Search(w http.ResponseWriter, r *http.Request) {
	q, err := query.ParseSkillSearch(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	projects, total, err := h.projects.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, projects, total, q, &utils.SearchCriteria{
		Skills:    q.Skills.Skills,
		MinSkills: q.Skills.Min(),
	})
}

// MyProjects godoc
// @Summary List the caller's projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page, default 1"
// @Param limit query int false "Page size, default 10, max 100"
// @Success 200 {object} utils.ProjectList
// @Failure 401 {object} utils.ResourceError
// @Router /api/v1/projects/my [get]
func (h *ProjectHandler) Mine(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := query.ParseProjectQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	projects, total, err := h.projects.Mine(r.Context(), id, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, projects, total, q, nil)
}

// TopSkills godoc
// @Summary Most used project skills
// @Tags Projects
// @Produce json
// @Param limit query int false "Number of skills, default 10, max 100"
// @Success 200 {object} utils.TopSkillsEnvelope
// @Router /api/v1/projects/top-skills [get]
func (h *ProjectHandler) TopSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.projects.TopSkills(r.Context(), query.ParseTopLimit(r.URL.Query()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if skills == nil {
		skills = []models.SkillCount{}
	}
	utils.JSONResponse(w, http.StatusOK, utils.TopSkillsEnvelope{
		Success: true,
		Skills:  skills,
	})
}

// GetProject godoc
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} utils.ProjectEnvelope
// @Failure 404 {object} utils.ResourceError
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "", p)
}

// CreateProject godoc
// @Summary Create a project
// @Description The caller becomes the owner
// @Tags Projects
// @Accept json
// @Produce json
// @Success 201 {object} utils.ProjectEnvelope
// @Failure 400 {object} utils.ResourceError
// @Failure 401 {object} utils.ResourceError
// @Router /api/v1/projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, body, err := input(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := policy.DecodeProjectCreate(body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.projects.Create(r.Context(), id, c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, "Project created successfully", p)
}

// UpdateProject godoc
// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} utils.ProjectEnvelope
// @Failure 400 {object} utils.ResourceError
// @Failure 403 {object} utils.ResourceError
// @Failure 404 {object} utils.ResourceError
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, body, projectID, err := projectInput(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.projects.Update(r.Context(), caller, projectID, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Project updated successfully", p)
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags Projects
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.ResourceError
// @Failure 404 {object} utils.ResourceError
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	projectID, err := pathID(r, "project")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.projects.Delete(r.Context(), id, projectID); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Project deleted successfully",
	})
}

// PatchProjectSkills godoc
// @Summary Replace a project's skills
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} utils.SkillsEnvelope
// @Failure 400 {object} utils.ResourceError
// @Failure 403 {object} utils.ResourceError
// @Router /api/v1/projects/{id}/skills [patch]
func (h *ProjectHandler) PatchSkills(w http.ResponseWriter, r *http.Request) {
	caller, body, projectID, err := projectInput(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.projects.PatchSkills(r.Context(), caller, projectID, body)
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

// PatchProjectLinks godoc
// @Summary Update a project's links
// @Description Merges github, live and demo. An empty string clears a link.
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project id"
// @Success 200 {object} utils.ProjectEnvelope
// @Failure 400 {object} utils.ResourceError
// @Failure 403 {object} utils.ResourceError
// @Router /api/v1/projects/{id}/links [patch]
func (h *ProjectHandler) PatchLinks(w http.ResponseWriter, r *http.Request) {
	caller, body, projectID, err := projectInput(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.projects.PatchLinks(r.Context(), caller, projectID, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, "Links updated successfully", p)
}
