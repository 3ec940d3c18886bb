package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prepdeck/backend/models"
	"github.com/prepdeck/backend/repository"
)

type fakeCallProvider struct {
	calls    int
	agentKey string
}

func (f *fakeCallProvider) RegisterCall(ctx context.Context, agentKey string, dynamicData map[string]string) (*CallRegistration, error) {
	f.calls++
	f.agentKey = agentKey
	return &CallRegistration{
		CallID:      "call-123",
		AgentID:     agentKey,
		AccessToken: "tok",
		SampleRate:  24000,
	}, nil
}

func createTestInterviewer(t *testing.T, repo *repository.GORMRepository, agentKey string, active bool) *models.Interviewer {
	t.Helper()
	interviewer := &models.Interviewer{
		ID:       uuid.New().String(),
		Name:     "Morgan",
		AgentKey: agentKey,
		IsActive: active,
	}
	if err := repo.CreateInterviewer(context.Background(), interviewer); err != nil {
		t.Fatalf("failed to create interviewer: %v", err)
	}
	return interviewer
}

func TestRegisterCall(t *testing.T) {
	repo := newTestRepo(t)
	provider := &fakeCallProvider{}
	endpoints := NewCallEndpoints(repo, provider)
	user := createTestUser(t, repo, "u1@example.com")
	interviewer := createTestInterviewer(t, repo, "agent-key-1", true)

	body := `{"interviewer_id": "` + interviewer.ID + `", "dynamic_data": {"candidate_name": "Alice"}}`
	req := httptest.NewRequest("POST", "/api/v1/calls/register", strings.NewReader(body))
	req = req.WithContext(WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	endpoints.RegisterCallHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.calls)
	}
	if provider.agentKey != "agent-key-1" {
		t.Errorf("expected interviewer's agent key, got %q", provider.agentKey)
	}

	var data struct {
		Call CallRegistration `json:"call"`
	}
	env := decodeEnvelope(t, rec.Body.Bytes(), &data)
	if !env.Success {
		t.Error("expected success=true")
	}
	if data.Call.CallID != "call-123" {
		t.Errorf("unexpected registration %+v", data.Call)
	}
}

func TestRegisterCallProviderNeverInvokedOnBadInput(t *testing.T) {
	repo := newTestRepo(t)
	provider := &fakeCallProvider{}
	endpoints := NewCallEndpoints(repo, provider)
	user := createTestUser(t, repo, "u1@example.com")
	inactive := createTestInterviewer(t, repo, "agent-key-2", false)
	keyless := createTestInterviewer(t, repo, "", true)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"not json", `nope`, http.StatusBadRequest},
		{"missing interviewer_id", `{}`, http.StatusBadRequest},
		{"malformed id", `{"interviewer_id": "abc"}`, http.StatusBadRequest},
		{"unknown interviewer", `{"interviewer_id": "` + uuid.New().String() + `"}`, http.StatusNotFound},
		{"inactive interviewer", `{"interviewer_id": "` + inactive.ID + `"}`, http.StatusNotFound},
		{"interviewer without agent", `{"interviewer_id": "` + keyless.ID + `"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/calls/register", strings.NewReader(tc.body))
			req = req.WithContext(WithUser(req.Context(), user))
			rec := httptest.NewRecorder()
			endpoints.RegisterCallHandler(rec, req)

			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}

	if provider.calls != 0 {
		t.Errorf("expected provider untouched, got %d calls", provider.calls)
	}
}

func TestVoiceCallServiceRegisterCall(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"call_id": "c1", "agent_id": "a1", "access_token": "t1", "sample_rate": 24000}`))
	}))
	defer server.Close()

	svc := NewVoiceCallService(CallConfig{APIKey: "sk-test", BaseURL: server.URL})
	registration, err := svc.RegisterCall(context.Background(), "a1", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("RegisterCall failed: %v", err)
	}
	if registration.CallID != "c1" || registration.AccessToken != "t1" {
		t.Errorf("unexpected registration %+v", registration)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/v2/register-phone-call" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestVoiceCallServiceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewVoiceCallService(CallConfig{APIKey: "sk-test", BaseURL: server.URL})
	if _, err := svc.RegisterCall(context.Background(), "missing", nil); err == nil {
		t.Fatal("expected error from provider failure")
	} else if statusFor(err) != http.StatusInternalServerError {
		t.Errorf("provider failures should classify as upstream, got %d", statusFor(err))
	}
}
