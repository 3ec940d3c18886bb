package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// CallProvider registers a call with the external voice provider, keyed by
// the interviewer's agent key. The conversation itself runs entirely on the
// provider's infrastructure; this service only brokers the handshake.
type CallProvider interface {
	RegisterCall(ctx context.Context, agentKey string, dynamicData map[string]string) (*CallRegistration, error)
}

// CallRegistration is the provider payload the client needs to join a call
type CallRegistration struct {
	CallID      string `json:"call_id"`
	AgentID     string `json:"agent_id"`
	AccessToken string `json:"access_token"`
	SampleRate  int    `json:"sample_rate"`
}

type VoiceCallService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type registerCallRequest struct {
	AgentID     string            `json:"agent_id"`
	DynamicData map[string]string `json:"retell_llm_dynamic_variables,omitempty"`
	SampleRate  int               `json:"sample_rate"`
}

func NewVoiceCallService(cfg CallConfig) *VoiceCallService {
	return &VoiceCallService{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (v *VoiceCallService) RegisterCall(ctx context.Context, agentKey string, dynamicData map[string]string) (*CallRegistration, error) {
	request := registerCallRequest{
		AgentID:     agentKey,
		DynamicData: dynamicData,
		SampleRate:  24000,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := v.baseURL + "/v2/register-phone-call"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: call provider unreachable: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: call provider error %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var registration CallRegistration
	if err := json.NewDecoder(resp.Body).Decode(&registration); err != nil {
		return nil, fmt.Errorf("%w: failed to decode call registration: %v", ErrUpstream, err)
	}

	slog.Info("Call registered with voice provider", "call_id", registration.CallID, "agent_key", agentKey)
	return &registration, nil
}
