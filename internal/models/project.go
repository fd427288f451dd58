package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectLinks struct {
	Github string `json:"github,omitempty"`
	Live   string `json:"live,omitempty"`
	Demo   string `json:"demo,omitempty"`
}

type Project struct {
	ID          uuid.UUID                        `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID                        `json:"owner" gorm:"type:uuid;index;not null"` // set once, at creation
	Title       string                           `json:"title" gorm:"not null"`
	Description string                           `json:"description,omitempty" gorm:"type:text"`
	Links       datatypes.JSONType[ProjectLinks] `json:"links" gorm:"type:jsonb"`
	Skills      pq.StringArray                   `json:"skills" gorm:"type:text[]"`
	CreatedAt   time.Time                        `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time                        `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SkillCount is one row of the skill usage aggregate.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}
