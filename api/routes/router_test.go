package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samuelezeh/ecommapp-backend/pkg/config"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: env},
	}
}

func newTestRouter(env string) http.Handler {
	return NewRouter(testConfig(env), nil, nil, nil, nil, nil, nil, nil, nil, nil)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter("dev")

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Ecommapp-Env") != "dev" {
		t.Fatalf("missing env header")
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	router := newTestRouter("dev")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestSuperuserRouteHiddenInProd(t *testing.T) {
	router := newTestRouter("prod")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/superuser", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusBadRequest || rec.Code == http.StatusInternalServerError {
		t.Fatalf("superuser route should not exist in prod, got %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter("dev")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
