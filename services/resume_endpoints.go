package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
	"github.com/xeipuuv/gojsonschema"
)

const maxResumeSize = 10 << 20 // 10 MiB

// saveResumeSchema validates the parsed-resume payload before anything is
// persisted. Jobs and skills come from a client-side extraction step, so the
// shape is enforced here rather than trusted.
const saveResumeSchema = `{
	"type": "object",
	"required": ["resumeUrl"],
	"properties": {
		"resumeUrl": {"type": "string", "minLength": 1, "maxLength": 500},
		"skills": {
			"type": "array",
			"items": {"type": "string", "minLength": 1}
		},
		"jobs": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["title"],
				"properties": {
					"title": {"type": "string", "minLength": 1, "maxLength": 255},
					"skills": {
						"type": "array",
						"items": {"type": "string", "minLength": 1}
					}
				}
			}
		}
	}
}`

type ResumeEndpoints struct {
	repo  *repository.GORMRepository
	store ResumeStore
}

type SaveResumeRequest struct {
	ResumeURL string          `json:"resumeUrl"`
	Skills    []string        `json:"skills"`
	Jobs      []ResumeJobBody `json:"jobs"`
}

type ResumeJobBody struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

type UploadResumeResponse struct {
	Success  bool   `json:"success"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
}

func NewResumeEndpoints(repo *repository.GORMRepository, store ResumeStore) *ResumeEndpoints {
	return &ResumeEndpoints{repo: repo, store: store}
}

func (e *ResumeEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/resumes", func(r chi.Router) {
		r.Post("/", e.SaveResumeHandler)
		r.Post("/upload", e.UploadResumeHandler)
	})
}

// UploadResumeHandler pushes the uploaded file to object storage and returns
// the retrievable URL. Identity is checked before the storage provider is
// touched.
func (e *ResumeEndpoints) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	if e.store == nil {
		writeFailure(w, ErrConfig, "Object storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		writeFailure(w, ErrValidation, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, ErrValidation, "file field is required")
		return
	}
	defer file.Close()

	fileName := r.FormValue("fileName")
	if fileName == "" {
		fileName = header.Filename
	}
	if fileName == "" {
		writeFailure(w, ErrValidation, "fileName is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxResumeSize+1))
	if err != nil {
		writeFailure(w, ErrUpstream, "Failed to read file")
		return
	}
	if len(data) > maxResumeSize {
		writeFailure(w, ErrValidation, "File too large")
		return
	}

	fileURL, err := e.store.Upload(r.Context(), fileName, data)
	if err != nil {
		writeFailure(w, err, "Failed to upload resume")
		return
	}

	writeJSON(w, http.StatusOK, UploadResumeResponse{
		Success:  true,
		FileURL:  fileURL,
		FileName: fileName,
	})

	slog.Info("Resume uploaded", "user_id", user.ID, "file_name", fileName)
}

// SaveResumeHandler persists the resume URL, the flat skill list and the
// extracted job entries for the caller.
func (e *ResumeEndpoints) SaveResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFrom(r.Context())
	if !ok {
		writeFailure(w, ErrNotAuthenticated, "Not authenticated")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxResumeSize))
	if err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(saveResumeSchema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}
	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		slog.Warn("Resume payload failed schema validation", "user_id", user.ID, "errors", messages)
		writeFailure(w, ErrValidation, "Invalid resume payload")
		return
	}

	var req SaveResumeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeFailure(w, ErrValidation, "Invalid request body")
		return
	}

	jobs := make([]models.ResumeJob, 0, len(req.Jobs))
	for _, job := range req.Jobs {
		jobs = append(jobs, models.ResumeJob{
			Title:  job.Title,
			Skills: job.Skills,
		})
	}

	if err := e.repo.SaveUserResume(r.Context(), user.ID, req.ResumeURL, req.Skills, jobs); err != nil {
		writeFailure(w, ErrUpstream, "Failed to save resume")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"resume_url": req.ResumeURL,
		"jobs":       len(jobs),
	})
}
