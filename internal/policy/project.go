package policy

import (
	"strings"
	"unicode/utf8"

	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/models"
	"gorm.io/datatypes"
)

const MaxDescriptionLength = 1000

var projectKeys = []string{"title", "description", "links", "skills"}

// ProjectChanges carries the fields present in a project create or update.
type ProjectChanges struct {
	Title       *string
	Description *string
	Links       *models.ProjectLinks
	Skills      *[]string
}

func (c ProjectChanges) Columns() []string {
	var cols []string
	if c.Title != nil {
		cols = append(cols, "title")
	}
	if c.Description != nil {
		cols = append(cols, "description")
	}
	if c.Links != nil {
		cols = append(cols, "links")
	}
	if c.Skills != nil {
		cols = append(cols, "skills")
	}
	return cols
}

func (c ProjectChanges) Apply(p *models.Project) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Links != nil {
		p.Links = datatypes.NewJSONType(*c.Links)
	}
	if c.Skills != nil {
		p.Skills = *c.Skills
	}
}

// DecodeProjectCreate requires a title. The owner always comes from the
// authenticated identity, a body owner is rejected.
func DecodeProjectCreate(body []byte) (ProjectChanges, error) {
	c, err := decodeProject(body)
	if err != nil {
		return ProjectChanges{}, err
	}
	if c.Title == nil {
		return ProjectChanges{}, apperrors.Validation("Title is required")
	}
	return c, nil
}

func DecodeProjectUpdate(body []byte) (ProjectChanges, error) {
	return decodeProject(body)
}

func decodeProject(body []byte) (ProjectChanges, error) {
	fields, err := object(body)
	if err != nil {
		return ProjectChanges{}, err
	}
	if _, ok := fields["owner"]; ok {
		return ProjectChanges{}, apperrors.Validation("Project owner cannot be set or changed")
	}
	if err := onlyKeys(fields, projectKeys...); err != nil {
		return ProjectChanges{}, err
	}

	var c ProjectChanges
	var title, description string
	if ok, err := field(fields, "title", &title); err != nil {
		return ProjectChanges{}, err
	} else if ok {
		if err := requireText("title", &title); err != nil {
			return ProjectChanges{}, apperrors.Validation("Title is required")
		}
		title = strings.TrimSpace(title)
		c.Title = &title
	}
	if ok, err := field(fields, "description", &description); err != nil {
		return ProjectChanges{}, err
	} else if ok {
		if utf8.RuneCountInString(description) > MaxDescriptionLength {
			return ProjectChanges{}, apperrors.Validationf("Description cannot exceed %d characters", MaxDescriptionLength)
		}
		c.Description = &description
	}

	var links models.ProjectLinks
	if ok, err := field(fields, "links", &links); err != nil {
		return ProjectChanges{}, err
	} else if ok {
		if err := checkProjectLinks(links); err != nil {
			return ProjectChanges{}, err
		}
		c.Links = &links
	}

	var skills []string
	if ok, err := field(fields, "skills", &skills); err != nil {
		return ProjectChanges{}, err
	} else if ok {
		skills = NormalizeSkills(skills)
		c.Skills = &skills
	}
	return c, nil
}

func checkProjectLinks(l models.ProjectLinks) error {
	for _, link := range []keyed[string]{{"github", l.Github}, {"live", l.Live}, {"demo", l.Demo}} {
		if err := checkURL(link.key, link.val); err != nil {
			return err
		}
	}
	return nil
}

// ProjectLinksPatch holds the link keys present in a patch. An empty string
// clears a link.
type ProjectLinksPatch struct {
	Github, Live, Demo *string
}

func (p ProjectLinksPatch) Merge(l models.ProjectLinks) models.ProjectLinks {
	if p.Github != nil {
		l.Github = *p.Github
	}
	if p.Live != nil {
		l.Live = *p.Live
	}
	if p.Demo != nil {
		l.Demo = *p.Demo
	}
	return l
}

func DecodeProjectLinks(body []byte) (ProjectLinksPatch, error) {
	fields, err := object(body)
	if err != nil {
		return ProjectLinksPatch{}, err
	}
	if err := onlyKeys(fields, "github", "live", "demo"); err != nil {
		return ProjectLinksPatch{}, err
	}
	var p ProjectLinksPatch
	for _, link := range []keyed[**string]{{"github", &p.Github}, {"live", &p.Live}, {"demo", &p.Demo}} {
		key, dst := link.key, link.val
		if _, err := field(fields, key, dst); err != nil {
			return ProjectLinksPatch{}, err
		}
		if *dst != nil {
			trimmed := strings.TrimSpace(**dst)
			if err := checkURL(key, trimmed); err != nil {
				return ProjectLinksPatch{}, err
			}
			*dst = &trimmed
		}
	}
	return p, nil
}
