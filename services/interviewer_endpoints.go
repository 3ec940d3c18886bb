package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
)

type InterviewerEndpoints struct {
	repo *repository.GORMRepository
}

type GetInterviewersResponse struct {
	Interviewers []models.Interviewer `json:"interviewers"`
	Count        int                  `json:"count"`
}

func NewInterviewerEndpoints(repo *repository.GORMRepository) *InterviewerEndpoints {
	return &InterviewerEndpoints{repo: repo}
}

func (e *InterviewerEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviewers", func(r chi.Router) {
		r.Get("/", e.GetInterviewersHandler)
		r.Get("/{id}", e.GetInterviewerHandler)
	})
}

func (e *InterviewerEndpoints) GetInterviewersHandler(w http.ResponseWriter, r *http.Request) {
	interviewers, err := e.repo.GetInterviewers(r.Context())
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get interviewers")
		return
	}

	writeSuccess(w, http.StatusOK, GetInterviewersResponse{
		Interviewers: interviewers,
		Count:        len(interviewers),
	})
}

func (e *InterviewerEndpoints) GetInterviewerHandler(w http.ResponseWriter, r *http.Request) {
	interviewerID := chi.URLParam(r, "id")
	if interviewerID == "" {
		writeFailure(w, ErrValidation, "Interviewer ID is required")
		return
	}

	interviewer, err := e.repo.GetInterviewerByID(r.Context(), interviewerID)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get interviewer")
		return
	}
	if interviewer == nil {
		writeFailure(w, ErrNotFound, "Interviewer not found")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"interviewer": interviewer})
}
