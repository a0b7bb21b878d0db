package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/auth"
)

const testSecret = "test-secret"

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger())
	app.Get("/me", AuthRequired(testSecret), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user_id": id.String()})
	})
	return app
}

func TestAuthRequiredRejects(t *testing.T) {
	app := newTestApp()
	expired, _ := auth.GenerateToken(uuid.New(), testSecret, -time.Minute)
	wrongSecret, _ := auth.GenerateToken(uuid.New(), "other", time.Hour)

	for name, header := range map[string]string{
		"missing":      "",
		"no bearer":    "Token abc",
		"garbage":      "Bearer not-a-jwt",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + wrongSecret,
	} {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", name, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != `{"error":"Unauthorized"}` {
			t.Fatalf("%s: unexpected body %s", name, body)
		}
	}
}

func TestAuthRequiredSetsUserID(t *testing.T) {
	app := newTestApp()
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["user_id"] != userID.String() {
		t.Fatalf("expected %s, got %s", userID, body["user_id"])
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatal("expected a request id header")
	}
}
