package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PopularInterview is a catalog entry for a popular-topic practice interview
type PopularInterview struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Category  string         `gorm:"size:100;not null;index" json:"category"`
	Title     string         `gorm:"not null" json:"title"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sessions []PopularInterviewSession `gorm:"foreignKey:PopularInterviewID" json:"sessions,omitempty"`
}

func (p *PopularInterview) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// BehavioralInterview is a catalog entry for a behavioral practice interview
type BehavioralInterview struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Category  string         `gorm:"size:100;not null;index" json:"category"`
	Title     string         `gorm:"not null" json:"title"`
	IsActive  bool           `gorm:"not null" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BehavioralInterview) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// PopularInterviewSession records one practice attempt: which user started
// which catalog entry, with what configuration. Rows are append-only; no
// field is mutated after creation.
type PopularInterviewSession struct {
	ID                 string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string         `gorm:"type:uuid;not null;index" json:"user_id"`
	PopularInterviewID string         `gorm:"type:uuid;not null;index" json:"popular_interview_id"`
	QuestionCount      int            `gorm:"not null" json:"question_count"`
	Duration           int            `gorm:"not null" json:"duration"` // Duration in minutes
	StartedAt          time.Time      `gorm:"not null" json:"started_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User             User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PopularInterview PopularInterview `gorm:"foreignKey:PopularInterviewID" json:"popular_interview,omitempty"`
}

func (s *PopularInterviewSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// SessionStat is the aggregation result of a user's sessions grouped by
// catalog entry. Not a table.
type SessionStat struct {
	PopularInterviewID string `json:"popular_interview_id"`
	Count              int64  `json:"count"`
}
