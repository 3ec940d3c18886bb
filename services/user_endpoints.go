package services

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
)

type UserEndpoints struct {
	repo *repository.GORMRepository
}

type UpdateJobRoleRequest struct {
	JobRole string `json:"job_role"`
}

type GetQuestionsResponse struct {
	Questions []models.Question `json:"questions"`
	Count     int               `json:"count"`
}

func NewUserEndpoints(repo *repository.GORMRepository) *UserEndpoints {
	return &UserEndpoints{repo: repo}
}

func (e *UserEndpoints) RegisterRoutes(r chi.Router) {
	r.Patch("/users/me/role", e.UpdateJobRoleHandler)
	r.Get("/questions", e.GetQuestionsHandler)
}

func (e *UserEndpoints) UpdateJobRoleHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	var req UpdateJobRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}

	role, err := models.ParseJobRole(req.JobRole)
	if err != nil {
		writeFailure(w, ErrValidation, "Unknown job role")
		return
	}

	if err := e.repo.UpdateUserJobRole(r.Context(), user.ID, role); err != nil {
		writeFailure(w, ErrUpstream, "Failed to update job role")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"job_role": role})
}

// GetQuestionsHandler serves the question bank for a job role. An explicit
// role query parameter wins; otherwise the caller's own job role is used.
func (e *UserEndpoints) GetQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	raw := r.URL.Query().Get("role")
	if raw == "" {
		raw = string(user.JobRole)
	}

	role, err := models.ParseJobRole(raw)
	if err != nil {
		writeFailure(w, ErrValidation, "Unknown job role")
		return
	}

	questions, err := e.repo.GetQuestionsByRole(r.Context(), role)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get questions")
		return
	}

	writeSuccess(w, http.StatusOK, GetQuestionsResponse{
		Questions: questions,
		Count:     len(questions),
	})
}
