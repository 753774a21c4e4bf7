package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/refarm-eos/refarm-backend/pkg/auth"
	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/enums"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "refarm-test",
			ExpirationMinutes: 15,
		},
	}
}

func testRouter() http.Handler {
	return NewRouter(RouterParams{
		Config:   testConfig(),
		Sessions: stubSessionChecker{},
	})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	payload := pkgAuth.AccessTokenPayload{
		SubjectID: uuid.New(),
		Role:      role,
		JTI:       "router-test-session",
	}
	if role == enums.RoleRestaurant {
		id := uuid.New()
		payload.RestaurantID = &id
		payload.LineUserID = "line-user"
	}
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveRoute(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartRejectsFarmerRole(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(RouterParams{Config: cfg, Sessions: stubSessionChecker{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.RoleFarmer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminRoutesRejectRestaurantRole(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(RouterParams{Config: cfg, Sessions: stubSessionChecker{}})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/analytics/sales", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.RoleRestaurant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestPublicCatalogSkipsAuth(t *testing.T) {
	router := testRouter()

	// No token: the route should reach the handler, which reports the
	// missing service rather than an auth failure.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
