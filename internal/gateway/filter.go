package gateway

import (
	"log/slog"
	"net/http"
	"strings"

	tokeninfra "github.com/portfolio-backend/internal/infrastructure/token"
)

// publicPrefixes lists path prefixes that bypass authentication. The auth
// service owns its own admission rules; OAuth2 login and health/metrics must
// be reachable without a token.
var publicPrefixes = []string{
	"/auth/",
	"/oauth2/",
	"/login/",
	"/health",
	"/metrics",
}

func isPublic(method, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Authenticate returns the gateway's authentication filter: it validates the
// bearer token and replaces any client-supplied identity headers with the
// token's identity before the request is forwarded downstream. Rejection is
// terminal for the request; nothing is forwarded.
func Authenticate(codec *tokeninfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				slog.Warn("request without bearer credential", "path", r.URL.Path)
				reject(w)
				return
			}

			claims, err := codec.Decode(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				slog.Warn("token rejected", "path", r.URL.Path, "reason", err)
				reject(w)
				return
			}

			// Downstream services trust these headers, so client-supplied
			// values must never survive.
			r.Header.Del("X-User-Id")
			r.Header.Del("X-User-Email")
			r.Header.Set("X-User-Id", claims.Subject)
			if claims.Email != nil {
				r.Header.Set("X-User-Email", *claims.Email)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":{"code":"1002","message":"Unauthorized"}}`))
}
