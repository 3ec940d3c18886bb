package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Failure taxonomy shared by every endpoint. Handlers classify failures with
// these sentinels (wrapped or bare) and writeFailure maps them to a status
// code; callers only ever see the stable envelope message, never the
// underlying persistence or provider error.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrUpstream         = errors.New("upstream failure")
	ErrConfig           = errors.New("configuration error")
)

// Envelope is the uniform response shape: {"success":true,"data":...} or
// {"success":false,"error":"..."}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConfig), errors.Is(err, ErrUpstream):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeFailure renders the failure envelope. message is the stable
// client-facing string; err picks the status code and is logged server-side
// when it carries upstream detail.
func writeFailure(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, ErrUpstream) || (!errors.Is(err, ErrNotAuthenticated) && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrValidation) && !errors.Is(err, ErrConfig)) {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, statusFor(err), Envelope{Success: false, Error: message})
}
