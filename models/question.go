package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is reference data: one practice question for a given job role
type Question struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	JobRole   JobRole        `gorm:"size:50;not null;index" json:"job_role"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// ResumeJob is a job title plus its skill list extracted from a user's
// uploaded resume. Rows are replaced wholesale whenever a new resume is saved.
type ResumeJob struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Skills    []string       `gorm:"serializer:json" json:"skills,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (r *ResumeJob) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
