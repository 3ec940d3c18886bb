package services

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeResumeStore records uploads so tests can assert whether the storage
// collaborator was touched at all.
type fakeResumeStore struct {
	calls int
	url   string
}

func (f *fakeResumeStore) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	f.calls++
	return f.url + "/" + fileName, nil
}

func multipartBody(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.WriteField("fileName", fileName); err != nil {
		t.Fatalf("failed to write fileName field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadResumeUnauthenticatedNeverTouchesStorage(t *testing.T) {
	repo := newTestRepo(t)
	store := &fakeResumeStore{url: "https://cdn.example.com"}
	endpoints := NewResumeEndpoints(repo, store)

	body, contentType := multipartBody(t, "resume.pdf", "fake pdf bytes")
	req := httptest.NewRequest("POST", "/api/v1/resumes/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	endpoints.UploadResumeHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes(), nil)
	if env.Error != "Not authenticated" {
		t.Errorf("expected 'Not authenticated', got %q", env.Error)
	}
	if store.calls != 0 {
		t.Errorf("expected storage untouched, got %d calls", store.calls)
	}
}

func TestUploadResumeReturnsFileURL(t *testing.T) {
	repo := newTestRepo(t)
	store := &fakeResumeStore{url: "https://cdn.example.com"}
	endpoints := NewResumeEndpoints(repo, store)
	user := createTestUser(t, repo, "u1@example.com")

	body, contentType := multipartBody(t, "resume.pdf", "fake pdf bytes")
	req := httptest.NewRequest("POST", "/api/v1/resumes/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	endpoints.UploadResumeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp UploadResumeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.FileURL != "https://cdn.example.com/resume.pdf" {
		t.Errorf("unexpected file URL %q", resp.FileURL)
	}
	if resp.FileName != "resume.pdf" {
		t.Errorf("unexpected file name %q", resp.FileName)
	}
	if store.calls != 1 {
		t.Errorf("expected 1 storage call, got %d", store.calls)
	}
}

func TestUploadResumeUnconfiguredStorage(t *testing.T) {
	repo := newTestRepo(t)
	endpoints := NewResumeEndpoints(repo, nil)
	user := createTestUser(t, repo, "u1@example.com")

	body, contentType := multipartBody(t, "resume.pdf", "fake pdf bytes")
	req := httptest.NewRequest("POST", "/api/v1/resumes/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	endpoints.UploadResumeHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes(), nil)
	if !strings.Contains(env.Error, "not configured") {
		t.Errorf("expected configuration error message, got %q", env.Error)
	}
}

func TestSaveResumePersistsJobsAndSkills(t *testing.T) {
	repo := newTestRepo(t)
	endpoints := NewResumeEndpoints(repo, nil)
	user := createTestUser(t, repo, "u1@example.com")

	payload := `{
		"resumeUrl": "https://cdn.example.com/resume.pdf",
		"skills": ["go", "postgres"],
		"jobs": [
			{"title": "Backend Engineer", "skills": ["go"]},
			{"title": "SRE", "skills": ["kubernetes"]}
		]
	}`

	req := httptest.NewRequest("POST", "/api/v1/resumes", strings.NewReader(payload))
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	endpoints.SaveResumeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	updated, err := repo.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if updated.ResumeURL != "https://cdn.example.com/resume.pdf" {
		t.Errorf("expected resume URL saved, got %q", updated.ResumeURL)
	}
	if len(updated.Skills) != 2 {
		t.Errorf("expected 2 skills, got %+v", updated.Skills)
	}

	jobs, err := repo.GetResumeJobs(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetResumeJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("expected 2 resume jobs, got %d", len(jobs))
	}
}

func TestSaveResumeRejectsMalformedPayload(t *testing.T) {
	repo := newTestRepo(t)
	endpoints := NewResumeEndpoints(repo, nil)
	user := createTestUser(t, repo, "u1@example.com")

	cases := []struct {
		name    string
		payload string
	}{
		{"missing resumeUrl", `{"skills": ["go"]}`},
		{"empty resumeUrl", `{"resumeUrl": ""}`},
		{"job without title", `{"resumeUrl": "https://x.example.com/r.pdf", "jobs": [{"skills": ["go"]}]}`},
		{"not json", `resumeUrl=?`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/resumes", strings.NewReader(tc.payload))
			req = req.WithContext(WithUser(req.Context(), user))
			rec := httptest.NewRecorder()
			endpoints.SaveResumeHandler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}
