package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/wellnourish/internal/cache"
	"github.com/vladimiradmaev/wellnourish/internal/config"
	"github.com/vladimiradmaev/wellnourish/internal/database"
	"github.com/vladimiradmaev/wellnourish/internal/domain"
	"github.com/vladimiradmaev/wellnourish/internal/logger"
	"github.com/vladimiradmaev/wellnourish/internal/parser"
	"github.com/vladimiradmaev/wellnourish/internal/repository"
	"github.com/vladimiradmaev/wellnourish/internal/routes"
	"github.com/vladimiradmaev/wellnourish/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Starting WellNourish API...")
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	var planCache domain.PlanCache
	if cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedisPlanCache(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, keeping latest plans in memory", "error", err)
			planCache = cache.NewMemoryPlanCache(cfg.Redis.LatestPlanTTL)
		} else {
			defer redisCache.Close()
			planCache = redisCache
		}
	} else {
		planCache = cache.NewMemoryPlanCache(cfg.Redis.LatestPlanTTL)
	}

	var model services.TextModel
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		model = services.NewOpenAIModel(cfg.AI.OpenAIAPIKey)
	default:
		gemini := services.NewGeminiModel(cfg.AI.GeminiAPIKey)
		defer gemini.Close()
		model = gemini
	}

	planService := services.NewPlanService(
		services.NewGenerator(model, cfg.AI.Models),
		repository.NewProfileRepository(db),
		repository.NewPlanRepository(db),
		planCache,
		services.PlanOptions{
			Depth:   parser.ParseDepth(cfg.AI.ValidationDepth),
			Timeout: cfg.AI.GenerationTimeout,
		},
	)
	logger.Info("Services initialized successfully",
		"provider", cfg.AI.Provider,
		"models", cfg.AI.Models,
		"validation", cfg.AI.ValidationDepth,
	)

	app := routes.NewApp(cfg)
	routes.RegisterRoutes(app, cfg, planService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("Server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
