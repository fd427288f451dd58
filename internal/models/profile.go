package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartYear   int    `json:"startYear"`
	EndYear     *int   `json:"endYear,omitempty"`
	Description string `json:"description,omitempty"`
}

type Work struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProfileLinks struct {
	Github    string `json:"github,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Resume    string `json:"resume,omitempty"`
}

// Profile is both the account and the public portfolio of one identity.
// Search columns (search_vector) are maintained by the database, see migrations.
type Profile struct {
	ID        uuid.UUID                        `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string                           `json:"name" gorm:"not null"`
	Email     string                           `json:"email" gorm:"uniqueIndex;not null"`
	Password  string                           `json:"-" gorm:"not null"`
	Education datatypes.JSONSlice[Education]   `json:"education" gorm:"type:jsonb"`
	Skills    pq.StringArray                   `json:"skills" gorm:"type:text[]"`
	Work      datatypes.JSONSlice[Work]        `json:"work" gorm:"type:jsonb"`
	Links     datatypes.JSONType[ProfileLinks] `json:"links" gorm:"type:jsonb"`
	Projects  []Project                        `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                        `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time                        `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
