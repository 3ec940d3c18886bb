package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prepdeck/backend/models"
	"gorm.io/gorm"
)

// Catalog reads. Only active rows are ever returned to callers, and list
// ordering is deterministic so repeated reads see identical results.

func (r *GORMRepository) GetInterviewers(ctx context.Context) ([]models.Interviewer, error) {
	var interviewers []models.Interviewer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&interviewers).Error
	if err != nil {
		slog.Error("Failed to get interviewers", "error", err)
		return nil, err
	}
	return interviewers, nil
}

// GetInterviewerByID returns (nil, nil) when the interviewer is absent or
// inactive; callers cannot distinguish the two cases.
func (r *GORMRepository) GetInterviewerByID(ctx context.Context, id string) (*models.Interviewer, error) {
	var interviewer models.Interviewer
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&interviewer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get interviewer by ID", "error", err, "interviewer_id", id)
		return nil, err
	}
	return &interviewer, nil
}

func (r *GORMRepository) GetPopularInterviews(ctx context.Context) ([]models.PopularInterview, error) {
	var interviews []models.PopularInterview
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category").Order("title").
		Find(&interviews).Error
	if err != nil {
		slog.Error("Failed to get popular interviews", "error", err)
		return nil, err
	}
	return interviews, nil
}

func (r *GORMRepository) GetPopularInterviewByID(ctx context.Context, id string) (*models.PopularInterview, error) {
	var interview models.PopularInterview
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get popular interview by ID", "error", err, "popular_interview_id", id)
		return nil, err
	}
	return &interview, nil
}

func (r *GORMRepository) GetBehavioralInterviews(ctx context.Context) ([]models.BehavioralInterview, error) {
	var interviews []models.BehavioralInterview
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category").Order("title").
		Find(&interviews).Error
	if err != nil {
		slog.Error("Failed to get behavioral interviews", "error", err)
		return nil, err
	}
	return interviews, nil
}

func (r *GORMRepository) GetBehavioralInterviewByID(ctx context.Context, id string) (*models.BehavioralInterview, error) {
	var interview models.BehavioralInterview
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&interview).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get behavioral interview by ID", "error", err, "behavioral_interview_id", id)
		return nil, err
	}
	return &interview, nil
}

// CreatePopularSession validates the catalog entry and inserts the session
// inside one transaction, so a session row can never reference an entry
// deactivated between check and insert. Returns (nil, nil) when the entry is
// missing or inactive; on success it returns the referenced entry.
func (r *GORMRepository) CreatePopularSession(ctx context.Context, session *models.PopularInterviewSession) (*models.PopularInterview, error) {
	var interview models.PopularInterview
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_active = ?", session.PopularInterviewID, true).First(&interview).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to create popular interview session", "error", err, "user_id", session.UserID, "popular_interview_id", session.PopularInterviewID)
		return nil, err
	}
	slog.Info("Popular interview session created", "session_id", session.ID, "user_id", session.UserID, "popular_interview_id", session.PopularInterviewID)
	return &interview, nil
}

func (r *GORMRepository) GetPopularSessions(ctx context.Context, userID string) ([]models.PopularInterviewSession, error) {
	var sessions []models.PopularInterviewSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("PopularInterview").
		Order("started_at DESC").
		Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get popular interview sessions", "error", err, "user_id", userID)
		return nil, err
	}
	return sessions, nil
}

// GetPopularSessionStats counts the caller's sessions per catalog entry.
// The user_id filter is applied before grouping; rows from other users never
// enter the aggregation.
func (r *GORMRepository) GetPopularSessionStats(ctx context.Context, userID string) ([]models.SessionStat, error) {
	var stats []models.SessionStat
	err := r.db.WithContext(ctx).
		Model(&models.PopularInterviewSession{}).
		Select("popular_interview_id, count(*) as count").
		Where("user_id = ?", userID).
		Group("popular_interview_id").
		Order("popular_interview_id").
		Scan(&stats).Error
	if err != nil {
		slog.Error("Failed to get popular interview session stats", "error", err, "user_id", userID)
		return nil, err
	}
	return stats, nil
}

func (r *GORMRepository) GetQuestionsByRole(ctx context.Context, role models.JobRole) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("job_role = ?", role).
		Order("created_at").
		Find(&questions).Error
	if err != nil {
		slog.Error("Failed to get questions by role", "error", err, "job_role", role)
		return nil, err
	}
	return questions, nil
}

// Seeder support

func (r *GORMRepository) CreateInterviewer(ctx context.Context, interviewer *models.Interviewer) error {
	if err := r.db.WithContext(ctx).Create(interviewer).Error; err != nil {
		slog.Error("Failed to create interviewer", "error", err)
		return err
	}
	slog.Info("Interviewer created", "interviewer_id", interviewer.ID, "name", interviewer.Name)
	return nil
}

func (r *GORMRepository) CreatePopularInterview(ctx context.Context, interview *models.PopularInterview) error {
	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		slog.Error("Failed to create popular interview", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) CreateBehavioralInterview(ctx context.Context, interview *models.BehavioralInterview) error {
	if err := r.db.WithContext(ctx).Create(interview).Error; err != nil {
		slog.Error("Failed to create behavioral interview", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		slog.Error("Failed to create question", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) CountInterviewers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Interviewer{}).Count(&count).Error; err != nil {
		slog.Error("Failed to count interviewers", "error", err)
		return 0, err
	}
	return count, nil
}
