package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRole is the user's target role, used to filter the question bank.
type JobRole string

const (
	JobRoleFrontend  JobRole = "frontend"
	JobRoleBackend   JobRole = "backend"
	JobRoleFullstack JobRole = "fullstack"
	JobRoleData      JobRole = "data"
	JobRoleDevOps    JobRole = "devops"
	JobRoleMobile    JobRole = "mobile"
	JobRoleProduct   JobRole = "product"
	JobRoleQA        JobRole = "qa"
)

// ParseJobRole validates a raw role string at the boundary. Unrecognized
// values are rejected instead of being trusted as-is.
func ParseJobRole(raw string) (JobRole, error) {
	switch JobRole(raw) {
	case JobRoleFrontend, JobRoleBackend, JobRoleFullstack, JobRoleData,
		JobRoleDevOps, JobRoleMobile, JobRoleProduct, JobRoleQA:
		return JobRole(raw), nil
	}
	return "", fmt.Errorf("unknown job role %q", raw)
}

type User struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"size:255" json:"-"` // Hashed password; empty for OAuth users
	FullName        string         `gorm:"size:255" json:"full_name,omitempty"`
	Role            string         `gorm:"default:'user'" json:"role"`
	JobRole         JobRole        `gorm:"size:50" json:"job_role,omitempty"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at,omitempty"`
	ResumeURL       string         `gorm:"size:500" json:"resume_url,omitempty"`
	Skills          []string       `gorm:"serializer:json" json:"skills,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	ResumeJobs    []ResumeJob                `gorm:"foreignKey:UserID" json:"resume_jobs,omitempty"`
	Sessions      []PopularInterviewSession  `gorm:"foreignKey:UserID" json:"sessions,omitempty"`
	RefreshTokens []RefreshToken             `gorm:"foreignKey:UserID" json:"refresh_tokens,omitempty"`
}

// BeforeCreate assigns the ID so inserts work the same on postgres and sqlite
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsOAuth reports whether the account was created through an OAuth provider
// (no local credential stored).
func (u *User) IsOAuth() bool {
	return u.Password == ""
}

type RefreshToken struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
