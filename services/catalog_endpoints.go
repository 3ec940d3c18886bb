package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
)

// CatalogEndpoints serves the popular and behavioral interview catalogs.
type CatalogEndpoints struct {
	repo *repository.GORMRepository
}

type GetPopularInterviewsResponse struct {
	Interviews []models.PopularInterview `json:"interviews"`
	Count      int                       `json:"count"`
}

type GetBehavioralInterviewsResponse struct {
	Interviews []models.BehavioralInterview `json:"interviews"`
	Count      int                          `json:"count"`
}

func NewCatalogEndpoints(repo *repository.GORMRepository) *CatalogEndpoints {
	return &CatalogEndpoints{repo: repo}
}

func (e *CatalogEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Get("/popular", e.GetPopularInterviewsHandler)
		r.Get("/popular/{id}", e.GetPopularInterviewHandler)
		r.Get("/behavioral", e.GetBehavioralInterviewsHandler)
		r.Get("/behavioral/{id}", e.GetBehavioralInterviewHandler)
	})
}

func (e *CatalogEndpoints) GetPopularInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	interviews, err := e.repo.GetPopularInterviews(r.Context())
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get popular interviews")
		return
	}

	writeSuccess(w, http.StatusOK, GetPopularInterviewsResponse{
		Interviews: interviews,
		Count:      len(interviews),
	})
}

func (e *CatalogEndpoints) GetPopularInterviewHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	if interviewID == "" {
		writeFailure(w, ErrValidation, "Interview ID is required")
		return
	}

	interview, err := e.repo.GetPopularInterviewByID(r.Context(), interviewID)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get popular interview")
		return
	}
	if interview == nil {
		writeFailure(w, ErrNotFound, "Interview not found")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"interview": interview})
}

func (e *CatalogEndpoints) GetBehavioralInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	interviews, err := e.repo.GetBehavioralInterviews(r.Context())
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get behavioral interviews")
		return
	}

	writeSuccess(w, http.StatusOK, GetBehavioralInterviewsResponse{
		Interviews: interviews,
		Count:      len(interviews),
	})
}

func (e *CatalogEndpoints) GetBehavioralInterviewHandler(w http.ResponseWriter, r *http.Request) {
	interviewID := chi.URLParam(r, "id")
	if interviewID == "" {
		writeFailure(w, ErrValidation, "Interview ID is required")
		return
	}

	interview, err := e.repo.GetBehavioralInterviewByID(r.Context(), interviewID)
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to get behavioral interview")
		return
	}
	if interview == nil {
		writeFailure(w, ErrNotFound, "Interview not found")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{"interview": interview})
}
