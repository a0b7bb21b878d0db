package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	apperrors "github.com/vladimiradmaev/wellnourish/internal/errors"
	"github.com/vladimiradmaev/wellnourish/internal/middleware"
)

type stubProfileService struct {
	profile  *domain.UserProfile
	getErr   error
	saveErr  error
	saved    *domain.UserProfile
	lastUser uuid.UUID
}

func (s *stubProfileService) GetProfile(_ context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	s.lastUser = userID
	return s.profile, s.getErr
}

func (s *stubProfileService) SaveProfile(_ context.Context, userID uuid.UUID, profile domain.UserProfile) error {
	s.lastUser = userID
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = &profile
	return nil
}

func newProfileTestApp(svc profileApplicationService) *fiber.App {
	app := fiber.New()
	h := NewProfileHandler(svc)
	api := app.Group("/api", middleware.AuthRequired(testSecret))
	api.Get("/profile", h.GetProfile)
	api.Put("/profile", h.UpdateProfile)
	return app
}

func TestGetProfile(t *testing.T) {
	svc := &stubProfileService{getErr: apperrors.NewPersistenceError(apperrors.CodeNotFound, nil, "Profile not found")}
	app := newProfileTestApp(svc)

	resp, data := doRequest(t, app, http.MethodGet, "/api/profile", bearer(t, uuid.New()), "")
	if resp.StatusCode != fiber.StatusNotFound || string(data) != `{"error":"Profile not found"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, data)
	}

	svc.getErr = nil
	svc.profile = &domain.UserProfile{Age: 28, Goals: []string{"Endurance"}}
	resp, data = doRequest(t, app, http.MethodGet, "/api/profile", bearer(t, uuid.New()), "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got domain.UserProfile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Age != 28 || got.Goals[0] != "Endurance" {
		t.Fatalf("unexpected profile %+v", got)
	}
}

func TestUpdateProfile(t *testing.T) {
	userID := uuid.New()
	svc := &stubProfileService{}
	app := newProfileTestApp(svc)

	resp, data := doRequest(t, app, http.MethodPut, "/api/profile", bearer(t, userID), validProfileBody)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if svc.saved == nil || svc.saved.CuisinePreferences[0] != "Italian" || svc.lastUser != userID {
		t.Fatalf("profile not saved for the caller: %+v", svc.saved)
	}

	bad := strings.Replace(validProfileBody, `"gender":"male"`, `"gender":"robot"`, 1)
	resp, data = doRequest(t, app, http.MethodPut, "/api/profile", bearer(t, userID), bad)
	if resp.StatusCode != fiber.StatusBadRequest || !strings.Contains(string(data), `"field":"gender"`) {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, data)
	}

	svc.saveErr = apperrors.NewPersistenceError(apperrors.CodeSaveFailed, errors.New("db"), "Failed to update profile. Please try again.")
	resp, data = doRequest(t, app, http.MethodPut, "/api/profile", bearer(t, userID), validProfileBody)
	if resp.StatusCode != fiber.StatusInternalServerError ||
		string(data) != `{"error":"Failed to update profile. Please try again."}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, data)
	}
}

func TestProfileRequiresAuth(t *testing.T) {
	app := newProfileTestApp(&stubProfileService{})
	resp, data := doRequest(t, app, http.MethodGet, "/api/profile", "Bearer nope", "")
	if resp.StatusCode != fiber.StatusUnauthorized || string(data) != `{"error":"Unauthorized"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, data)
	}
}
