package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/wellnourish/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Port: %s\n", cfg.Port)
	fmt.Printf("  - Supabase JWT Secret: %s\n", maskToken(cfg.SupabaseJWTSecret))
	fmt.Printf("  - AI Provider: %s\n", cfg.AI.Provider)
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.AI.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.AI.OpenAIAPIKey))
	fmt.Printf("  - Models: %s\n", strings.Join(cfg.AI.Models, " -> "))
	fmt.Printf("  - Plan Validation: %s\n", cfg.AI.ValidationDepth)
	fmt.Printf("  - Generation Timeout: %s\n", cfg.AI.GenerationTimeout)
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s (latest plan TTL %s)\n", cfg.Redis.Addr(), cfg.Redis.LatestPlanTTL)
	} else {
		fmt.Printf("  - Redis: <not set, using in-memory cache>\n")
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)

	for _, w := range cfg.Warnings() {
		fmt.Printf("⚠️  %s\n", w)
	}
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
