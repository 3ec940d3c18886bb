package services

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
)

type SessionEndpoints struct {
	repo *repository.GORMRepository
}

type CreateSessionRequest struct {
	PopularInterviewID string `json:"popular_interview_id"`
	QuestionCount      int    `json:"question_count"`
	Duration           int    `json:"duration"`
}

func (r CreateSessionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PopularInterviewID, validation.Required, is.UUIDv4),
		validation.Field(&r.QuestionCount, validation.Required, validation.Min(1), validation.Max(50)),
		validation.Field(&r.Duration, validation.Required, validation.Min(5), validation.Max(120)),
	)
}

type CreateSessionResponse struct {
	Session          models.PopularInterviewSession `json:"session"`
	PopularInterview models.PopularInterview        `json:"popular_interview"`
}

type GetSessionsResponse struct {
	Sessions []models.PopularInterviewSession `json:"sessions"`
	Count    int                              `json:"count"`
}

type GetSessionStatsResponse struct {
	Stats []models.SessionStat `json:"stats"`
}

func NewSessionEndpoints(repo *repository.GORMRepository) *SessionEndpoints {
	return &SessionEndpoints{repo: repo}
}

func (e *SessionEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/sessions/popular", func(r chi.Router) {
		r.Post("/", e.CreateSessionHandler)
		r.Get("/", e.GetSessionsHandler)
		r.Get("/stats", e.GetSessionStatsHandler)
	})
}

// CreateSessionHandler starts a practice attempt against a popular catalog
// entry. The entry must be active at insert time; the repository does the
// check and the insert atomically.
func (e *SessionEndpoints) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFailure(w, ErrValidation, err.Error())
		return
	}

	session := models.PopularInterviewSession{
		UserID:             user.ID,
		PopularInterviewID: req.PopularInterviewID,
		QuestionCount:      req.QuestionCount,
		Duration:           req.Duration,
		StartedAt:          time.Now(),
	}

	interview, err := e.repo.CreatePopularSession(r.Context(), &session)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to create session")
		return
	}
	if interview == nil {
		writeFailure(w, ErrNotFound, "Interview not found")
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Data: CreateSessionResponse{
			Session:          session,
			PopularInterview: *interview,
		},
	})
}

func (e *SessionEndpoints) GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	sessions, err := e.repo.GetPopularSessions(r.Context(), user.ID)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get sessions")
		return
	}

	writeSuccess(w, http.StatusOK, GetSessionsResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// GetSessionStatsHandler returns per-catalog-entry counts of the caller's own
// sessions. Scoping to the resolved identity happens in the repository query.
func (e *SessionEndpoints) GetSessionStatsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	stats, err := e.repo.GetPopularSessionStats(r.Context(), user.ID)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get session stats")
		return
	}

	writeSuccess(w, http.StatusOK, GetSessionStatsResponse{Stats: stats})
}
