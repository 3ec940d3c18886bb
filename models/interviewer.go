package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interviewer is a virtual interviewer persona. The trait scores (0-100)
// shape the tone of the generated conversation; AgentKey identifies the
// matching agent at the voice-call provider.
type Interviewer struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Specialties []string       `gorm:"serializer:json" json:"specialties,omitempty"`
	Rapport     int            `gorm:"default:50" json:"rapport"`
	Exploration int            `gorm:"default:50" json:"exploration"`
	Empathy     int            `gorm:"default:50" json:"empathy"`
	Speed       int            `gorm:"default:50" json:"speed"`
	AgentKey    string         `gorm:"size:255" json:"agent_key,omitempty"`
	IsActive    bool           `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Interviewer) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
