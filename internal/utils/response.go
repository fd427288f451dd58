package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/models"
)

// Payload is the resource family envelope: {success, message, data}.
type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody is the auth family error envelope.
type ErrorBody struct {
	Message string `json:"message"`
}

// ResourceError is the resource family error envelope.
type ResourceError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSONResponse sends a JSON response with given status and payload
func JSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// ProfileView is the public shape of a profile. It has no password field.
type ProfileView struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Education []models.Education  `json:"education"`
	Skills    []string            `json:"skills"`
	Work      []models.Work       `json:"work"`
	Links     models.ProfileLinks `json:"links"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func NewProfileView(p *models.Profile) ProfileView {
	return ProfileView{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Education: nonNil(p.Education),
		Skills:    nonNil(p.Skills),
		Work:      nonNil(p.Work),
		Links:     p.Links.Data(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewProfileViews(ps []models.Profile) []ProfileView {
	out := make([]ProfileView, 0, len(ps))
	for i := range ps {
		out = append(out, NewProfileView(&ps[i]))
	}
	return out
}

type ProjectView struct {
	ID          uuid.UUID           `json:"id"`
	Owner       uuid.UUID           `json:"owner"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Links       models.ProjectLinks `json:"links"`
	Skills      []string            `json:"skills"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func NewProjectView(p *models.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		Owner:       p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		Links:       p.Links.Data(),
		Skills:      nonNil(p.Skills),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func NewProjectViews(ps []models.Project) []ProjectView {
	out := make([]ProjectView, 0, len(ps))
	for i := range ps {
		out = append(out, NewProjectView(&ps[i]))
	}
	return out
}

func nonNil[S ~[]E, E any](s S) []E {
	if s == nil {
		return []E{}
	}
	return s
}

type ProfileEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Profile ProfileView `json:"profile"`
	Token   string      `json:"token,omitempty"`
}

type ProfileList struct {
	Success     bool          `json:"success"`
	Profiles    []ProfileView `json:"profiles"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int64         `json:"total"`
}

type ProjectEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Project ProjectView `json:"project"`
}

type SearchCriteria struct {
	Skills    []string `json:"skills"`
	MinSkills int      `json:"minSkills"`
}

type ProjectList struct {
	Success        bool            `json:"success"`
	Projects       []ProjectView   `json:"projects"`
	TotalPages     int             `json:"totalPages"`
	CurrentPage    int             `json:"currentPage"`
	Total          int64           `json:"total"`
	SearchCriteria *SearchCriteria `json:"searchCriteria,omitempty"`
}

type SkillsEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Skills  []string `json:"skills"`
}

type TopSkillsEnvelope struct {
	Success bool                `json:"success"`
	Skills  []models.SkillCount `json:"skills"`
}
