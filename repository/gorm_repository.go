package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prepdeck/backend/models"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Interviewer{},
		&models.PopularInterview{},
		&models.BehavioralInterview{},
		&models.PopularInterviewSession{},
		&models.Question{},
		&models.ResumeJob{},
	)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// UpdateUserJobRole sets the user's target job role
func (r *GORMRepository) UpdateUserJobRole(ctx context.Context, userID string, role models.JobRole) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("job_role", role)
	if result.Error != nil {
		slog.Error("Failed to update user job role", "error", result.Error, "user_id", userID)
		return result.Error
	}
	slog.Info("User job role updated", "user_id", userID, "job_role", role)
	return nil
}

// SaveUserResume stores the resume URL and skill list on the user and
// replaces the user's extracted resume jobs, all in one transaction.
func (r *GORMRepository) SaveUserResume(ctx context.Context, userID, resumeURL string, skills []string, jobs []models.ResumeJob) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Updates goes through the model struct so the skills slice passes
		// the json serializer; Select keeps both columns in the statement
		// even when zero-valued.
		updates := models.User{ResumeURL: resumeURL, Skills: skills}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Select("resume_url", "skills").Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ResumeJob{}).Error; err != nil {
			return err
		}
		if len(jobs) == 0 {
			return nil
		}
		for i := range jobs {
			jobs[i].UserID = userID
		}
		return tx.Create(&jobs).Error
	})
	if err != nil {
		slog.Error("Failed to save user resume", "error", err, "user_id", userID)
		return err
	}
	slog.Info("User resume saved", "user_id", userID, "jobs", len(jobs))
	return nil
}

func (r *GORMRepository) GetResumeJobs(ctx context.Context, userID string) ([]models.ResumeJob, error) {
	var jobs []models.ResumeJob
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("title").Find(&jobs).Error; err != nil {
		slog.Error("Failed to get resume jobs", "error", err, "user_id", userID)
		return nil, err
	}
	return jobs, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return err
	}
	return nil
}
