package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/vladimiradmaev/wellnourish/internal/config"
	"github.com/vladimiradmaev/wellnourish/internal/services"
)

func newTestApp() *fiber.App {
	cfg := &config.Config{SupabaseJWTSecret: "secret", CORSAllowOrigins: "*"}
	app := NewApp(cfg)
	svc := services.NewPlanService(services.NewGenerator(services.NewGeminiModel(""), []string{"gemini-2.5-flash"}),
		nil, nil, nil, services.PlanOptions{})
	RegisterRoutes(app, cfg, svc)
	return app
}

func TestHealth(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != `{"status":"ok"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}
}

func TestAPIRoutesRequireAuth(t *testing.T) {
	app := newTestApp()
	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/generate-plan"},
		{http.MethodPost, "/api/onboarding"},
		{http.MethodGet, "/api/profile"},
		{http.MethodPut, "/api/profile"},
		{http.MethodGet, "/api/plans"},
		{http.MethodPost, "/api/plans"},
		{http.MethodGet, "/api/plans/latest"},
		{http.MethodDelete, "/api/plans/6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b"},
	} {
		resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", r.method, r.path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", r.method, r.path, resp.StatusCode)
		}
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	resp, err := newTestApp().Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusNotFound || string(body) != `{"error":"Cannot GET /nope"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}
}
