package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/addisnest/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Every failure uses it.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OTPEnvelope wraps request-otp responses. OTP is only set outside production.
type OTPEnvelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
	OTP       string    `json:"otp,omitempty"`
}

// SessionEnvelope wraps every response that issues a token.
type SessionEnvelope struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type UserEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

// UploadEnvelope wraps media upload responses.
type UploadEnvelope struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Files   []domain.UploadedFile `json:"files"`
}

type PropertyEnvelope struct {
	Success bool             `json:"success"`
	Data    *domain.Property `json:"data"`
}

type PropertyListEnvelope struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    []domain.Property `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Success: false, Message: msg})
}

// writeServiceError maps a service error onto the failure envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := httpError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, status, msg)
}

// httpError returns the status and client-safe message for err.
func httpError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError, "failed to store upload"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// decodeJSON decodes the request body into v, rejecting unknown trailing data.
func decodeJSON(r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return false
	}
	return !dec.More()
}
