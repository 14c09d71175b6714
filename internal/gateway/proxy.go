package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/portfolio-backend/internal/config"
)

// ServiceProxy holds one reverse proxy per backend service.
type ServiceProxy struct {
	routes map[string]*httputil.ReverseProxy
}

// NewServiceProxy builds reverse proxies for each configured backend.
func NewServiceProxy(cfg *config.GatewayConfig) (*ServiceProxy, error) {
	sp := &ServiceProxy{routes: make(map[string]*httputil.ReverseProxy)}

	backends := map[string]string{
		"auth":      cfg.AuthServiceURL,
		"portfolio": cfg.PortfolioServiceURL,
		"page":      cfg.PageServiceURL,
		"asset":     cfg.AssetServiceURL,
	}

	for name, rawURL := range backends {
		target, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ErrorHandler = errorHandler(name)
		sp.routes[name] = proxy
		slog.Info("registered service proxy", "service", name, "target", rawURL)
	}

	return sp, nil
}

// Handler returns the proxy for the named backend.
func (sp *ServiceProxy) Handler(service string) http.Handler {
	proxy, ok := sp.routes[service]
	if !ok {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"1000","message":"service not configured"}}`))
		})
	}
	return proxy
}

func errorHandler(service string) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Error("proxy error",
			"service", service,
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"1000","message":"upstream service unavailable"}}`))
	}
}
