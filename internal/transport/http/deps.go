package http

import (
	"github.com/portfolio-backend/internal/application/token"
	"github.com/portfolio-backend/internal/application/verification"
)

// Deps holds the application services the router exposes.
type Deps struct {
	VerificationSvc verification.Service
	TokenSvc        token.Service
}
