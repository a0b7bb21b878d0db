package routes

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/vladimiradmaev/wellnourish/internal/config"
	"github.com/vladimiradmaev/wellnourish/internal/handlers"
	"github.com/vladimiradmaev/wellnourish/internal/middleware"
	"github.com/vladimiradmaev/wellnourish/internal/services"
)

const maxBodyBytes = 1 * 1024 * 1024

// NewApp creates the Fiber app with the shared middleware stack.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "wellnourish",
		BodyLimit:    maxBodyBytes,
		ErrorHandler: jsonErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: strings.Join([]string{
			fiber.HeaderOrigin,
			fiber.HeaderContentType,
			fiber.HeaderAccept,
			fiber.HeaderAuthorization,
		}, ", "),
	}))

	return app
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, planService *services.PlanService) {
	planHandler := handlers.NewPlanHandler(planService)
	profileHandler := handlers.NewProfileHandler(planService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	api := app.Group("/api", middleware.AuthRequired(cfg.SupabaseJWTSecret))

	api.Post("/generate-plan", planHandler.GeneratePlan)
	api.Post("/onboarding", planHandler.Onboarding)

	api.Get("/profile", profileHandler.GetProfile)
	api.Put("/profile", profileHandler.UpdateProfile)

	plans := api.Group("/plans")
	plans.Get("", planHandler.ListPlans)
	plans.Post("", planHandler.SavePlan)
	plans.Get("/latest", planHandler.GetLatestPlan)
	plans.Get("/:id", planHandler.GetPlan)
	plans.Delete("/:id", planHandler.DeletePlan)
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
