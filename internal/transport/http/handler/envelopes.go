package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/portfolio-backend/internal/domain"
)

// Envelope is the uniform response wrapper: success responses carry the
// payload under data, failures carry a code/message error body.
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// ErrorBody is the client-facing error shape.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// EmailVerificationResponse acknowledges register/verify/resend requests.
type EmailVerificationResponse struct {
	Message string  `json:"message"`
	Email   *string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// writeError maps a service error to the envelope exactly once. Business
// errors keep their code, message and status; anything else becomes a generic
// 500 with full context logged server-side only.
func writeError(w http.ResponseWriter, err error) {
	var domErr *domain.Error
	if !errors.As(err, &domErr) {
		slog.Error("unhandled error", "err", err)
		domErr = domain.ErrInternal
	}
	writeJSON(w, domErr.Status, Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: domErr.Code, Message: domErr.Message},
		Timestamp: time.Now().UnixMilli(),
	})
}

// writeErrorWith is writeError with an explicit error value and message
// override, for transport-level validation failures.
func writeErrorWith(w http.ResponseWriter, base *domain.Error, message string) {
	writeError(w, base.WithMessage("%s", message))
}
