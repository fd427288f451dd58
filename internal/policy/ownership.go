// Package policy holds the ownership rules and the field mutation guard that
// every mutating route goes through.
package policy

import (
	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/models"
)

type Action string

const (
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionPatchSkills Action = "update skills of"
	ActionPatchLinks  Action = "update links of"
)

// AuthorizeProject allows the action iff identity owns the project. Callers
// load the project first so a missing project is NotFound, not Forbidden.
func AuthorizeProject(identity uuid.UUID, p *models.Project, action Action) error {
	if p == nil || p.OwnerID != identity {
		return apperrors.Forbidden("You are not authorized to " + string(action) + " this project")
	}
	return nil
}

func AuthorizeProfile(identity uuid.UUID, p *models.Profile, action Action) error {
	if p == nil || p.ID != identity {
		return apperrors.Forbidden("You are not authorized to " + string(action) + " this profile")
	}
	return nil
}
