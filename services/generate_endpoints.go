package services

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prepdeck/backend/models"
)

// GenerateEndpoints exposes AI question-set generation.
type GenerateEndpoints struct {
	gemini *GeminiService
}

type GenerateQuestionsRequest struct {
	Role  string `json:"role"`
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func (r GenerateQuestionsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required),
		validation.Field(&r.Topic, validation.Length(0, 200)),
		validation.Field(&r.Count, validation.Min(0), validation.Max(MaxQuestionCount)),
	)
}

func NewGenerateEndpoints(gemini *GeminiService) *GenerateEndpoints {
	return &GenerateEndpoints{gemini: gemini}
}

func (e *GenerateEndpoints) RegisterRoutes(r chi.Router) {
	r.Post("/questions/generate", e.GenerateQuestionsHandler)
}

func (e *GenerateEndpoints) GenerateQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := UserFrom(r.Context()); !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	if e.gemini == nil {
		writeFailure(w, ErrConfig, "Question generation is not configured")
		return
	}

	var req GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeFailure(w, ErrValidation, err.Error())
		return
	}

	role, err := models.ParseJobRole(req.Role)
	if err != nil {
		writeFailure(w, ErrValidation, "Unknown job role")
		return
	}

	set, err := e.gemini.GenerateQuestionSet(r.Context(), role, req.Topic, req.Count)
	if err != nil {
		writeFailure(w, err, "Failed to generate questions")
		return
	}

	writeSuccess(w, http.StatusOK, set)
}
