package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/portfolio-backend/internal/application/token"
	"github.com/portfolio-backend/internal/application/verification"
	"github.com/portfolio-backend/internal/domain"
	"github.com/portfolio-backend/internal/pkg/validate"
)

// AuthHandler handles the email verification and token refresh endpoints.
// Identity arrives via the gateway-injected X-User-Id header.
type AuthHandler struct {
	verificationSvc verification.Service
	tokenSvc        token.Service
}

func NewAuthHandler(verificationSvc verification.Service, tokenSvc token.Service) *AuthHandler {
	return &AuthHandler{verificationSvc: verificationSvc, tokenSvc: tokenSvc}
}

type registerEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// userID extracts and validates the X-User-Id header.
func userID(r *http.Request) (string, error) {
	raw := r.Header.Get("X-User-Id")
	if raw == "" {
		return "", domain.ErrUnauthorized.WithMessage("missing X-User-Id header")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", domain.ErrInvalidInput.WithMessage("X-User-Id must be a UUID")
	}
	return parsed.String(), nil
}

func (h *AuthHandler) RegisterEmail(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req registerEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorWith(w, domain.ErrInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErrorWith(w, domain.ErrInvalidEmailFormat, err.Error())
		return
	}
	if err := h.verificationSvc.RegisterEmail(r.Context(), uid, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, EmailVerificationResponse{
		Message: "Verification email sent successfully",
		Email:   &req.Email,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorWith(w, domain.ErrInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErrorWith(w, domain.ErrInvalidInput, err.Error())
		return
	}
	if err := h.verificationSvc.VerifyEmail(r.Context(), uid, req.Code); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, EmailVerificationResponse{
		Message: "Email verified successfully",
		Email:   nil,
	})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req registerEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorWith(w, domain.ErrInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErrorWith(w, domain.ErrInvalidEmailFormat, err.Error())
		return
	}
	if err := h.verificationSvc.ResendVerification(r.Context(), uid, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, EmailVerificationResponse{
		Message: "Verification email resent successfully",
		Email:   &req.Email,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorWith(w, domain.ErrInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeErrorWith(w, domain.ErrInvalidInput, err.Error())
		return
	}
	result, err := h.tokenSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, result)
}
