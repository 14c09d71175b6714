package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/portfolio-backend/internal/config"
	"github.com/portfolio-backend/internal/transport/http/handler"
	appmiddleware "github.com/portfolio-backend/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds the auth-service router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.RequestLog)
	r.Use(appmiddleware.Metrics("auth"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second per IP, burst of 10 — transport-level guard on the
	// verification endpoints; the per-user domain limiter is stricter.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(deps.VerificationSvc, deps.TokenSvc)

	r.Get("/health", healthH.Ping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/refresh", authH.Refresh)
		r.Route("/email", func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/register", authH.RegisterEmail)
			r.Post("/verify", authH.VerifyEmail)
			r.Post("/resend", authH.ResendVerification)
		})
	})

	return r
}
