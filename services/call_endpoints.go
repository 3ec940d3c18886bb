package services

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/prepdeck/backend/repository"
)

type CallEndpoints struct {
	repo     *repository.GORMRepository
	provider CallProvider
}

type RegisterCallRequest struct {
	InterviewerID string            `json:"interviewer_id"`
	DynamicData   map[string]string `json:"dynamic_data"`
}

func (r RegisterCallRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InterviewerID, validation.Required, is.UUIDv4),
	)
}

func NewCallEndpoints(repo *repository.GORMRepository, provider CallProvider) *CallEndpoints {
	return &CallEndpoints{repo: repo, provider: provider}
}

func (e *CallEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/calls/register", e.RegisterCallHandler)
}

// RegisterCallHandler resolves the interviewer's voice agent and registers a
// call with the provider. Inactive or unknown interviewers are a 404 before
// any provider traffic happens.
func (e *CallEndpoints) RegisterCallHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := UserFrom(r.Context()); !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	if e.provider == nil {
		writeFailure(w, ErrConfig, "Voice-call provider is not configured")
		return
	}

	var req RegisterCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFailure(w, ErrValidation, err.Error())
		return
	}

	interviewer, err := e.repo.GetInterviewerByID(r.Context(), req.InterviewerID)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get interviewer")
		return
	}
	if interviewer == nil || interviewer.AgentKey == "" {
		writeFailure(w, ErrNotFound, "Interviewer not found")
		return
	}

	registration, err := e.provider.RegisterCall(r.Context(), interviewer.AgentKey, req.DynamicData)
	if err != nil {
		writeFailure(w, err, "Failed to register call")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"call": registration})
}
