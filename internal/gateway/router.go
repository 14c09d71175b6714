package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	tokeninfra "github.com/portfolio-backend/internal/infrastructure/token"
	appmiddleware "github.com/portfolio-backend/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gateway router: the authentication filter in front of
// path-prefix routes to each backend service.
func NewRouter(codec *tokeninfra.Provider, sp *ServiceProxy) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.RequestLog)
	r.Use(appmiddleware.Metrics("gateway"))
	r.Use(Authenticate(codec))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/auth/*", sp.Handler("auth"))
	r.Handle("/oauth2/*", sp.Handler("auth"))
	r.Handle("/login/*", sp.Handler("auth"))
	r.Handle("/portfolio/*", sp.Handler("portfolio"))
	r.Handle("/page/*", sp.Handler("page"))
	r.Handle("/assets/*", sp.Handler("asset"))

	return r
}
