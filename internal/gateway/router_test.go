package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/portfolio-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGateway(t *testing.T, backend string) http.Handler {
	t.Helper()
	sp, err := NewServiceProxy(&config.GatewayConfig{
		AuthServiceURL:      backend,
		PortfolioServiceURL: backend,
		PageServiceURL:      backend,
		AssetServiceURL:     backend,
	})
	require.NoError(t, err)
	return NewRouter(newCodec(t, time.Hour), sp)
}

func TestRouter_ForwardsAuthenticatedRequest(t *testing.T) {
	var got http.Header
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer backend.Close()

	codec := newCodec(t, time.Hour)
	gw := testGateway(t, backend.URL)

	access, err := codec.IssueAccess(testUserID, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/portfolio/items", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, testUserID, got.Get("X-User-Id"))
}

func TestRouter_RejectsBeforeForwarding(t *testing.T) {
	touched := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		touched = true
	}))
	defer backend.Close()

	gw := testGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/portfolio/items", nil)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, touched)
}

func TestRouter_AuthRoutesAreOpen(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	gw := testGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_DownBackendIs502(t *testing.T) {
	// A listener that is immediately closed leaves a port nothing accepts on.
	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	gw := testGateway(t, deadURL)

	req := httptest.NewRequest(http.MethodGet, "/auth/anything", nil)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream service unavailable")
}

func TestRouter_Health(t *testing.T) {
	gw := testGateway(t, "http://127.0.0.1:9")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	gw.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServiceProxy_UnknownService(t *testing.T) {
	sp, err := NewServiceProxy(&config.GatewayConfig{
		AuthServiceURL:      "http://127.0.0.1:9",
		PortfolioServiceURL: "http://127.0.0.1:9",
		PageServiceURL:      "http://127.0.0.1:9",
		AssetServiceURL:     "http://127.0.0.1:9",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	sp.Handler("nope").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
