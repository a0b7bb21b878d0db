package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/wellnourish/internal/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	ValidationShallow = "shallow"
	ValidationStrict  = "strict"
)

// Default model chain: a preview model first, one stable fallback.
var (
	defaultGeminiModels = []string{"gemini-3-flash-preview", "gemini-2.5-flash"}
	defaultOpenAIModels = []string{"gpt-4o", "gpt-4o-mini"}
)

type Config struct {
	Port              string
	SupabaseJWTSecret string
	CORSAllowOrigins  string
	AI                AIConfig
	DB                DBConfig
	Redis             RedisConfig
	Logger            LoggerConfig
}

type AIConfig struct {
	Provider          string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	Models            []string
	ValidationDepth   string
	GenerationTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host          string
	Port          string
	Password      string
	LatestPlanTTL time.Duration
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

// APIKey returns the credential for the configured provider.
func (c AIConfig) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Enabled reports whether a redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func parseModels(raw string, provider string) []string {
	var models []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	if len(models) > 0 {
		return models
	}
	if provider == ProviderOpenAI {
		return append([]string(nil), defaultOpenAIModels...)
	}
	return append([]string(nil), defaultGeminiModels...)
}

func Load() (*Config, error) {
	provider := strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini))

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		CORSAllowOrigins:  getEnvOrDefault("CORS_ALLOW_ORIGINS", "*"),
		AI: AIConfig{
			Provider:          provider,
			GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
			OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
			Models:            parseModels(os.Getenv("AI_MODELS"), provider),
			ValidationDepth:   strings.ToLower(getEnvOrDefault("PLAN_VALIDATION", ValidationShallow)),
			GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 90*time.Second),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "wellnourish"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:          os.Getenv("REDIS_HOST"),
			Port:          getEnvOrDefault("REDIS_PORT", "6379"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			LatestPlanTTL: getEnvDuration("LATEST_PLAN_TTL", 30*24*time.Hour),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configuration the server cannot run with. A missing model
// API key is not an error here: generation reports it on first use.
func (c *Config) Validate() error {
	var problems []string
	if c.SupabaseJWTSecret == "" {
		problems = append(problems, "SUPABASE_JWT_SECRET is required")
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		problems = append(problems, fmt.Sprintf("AI_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.AI.Provider))
	}
	switch c.AI.ValidationDepth {
	case ValidationShallow, ValidationStrict:
	default:
		problems = append(problems, fmt.Sprintf("PLAN_VALIDATION must be %q or %q, got %q", ValidationShallow, ValidationStrict, c.AI.ValidationDepth))
	}
	if c.AI.GenerationTimeout < 0 {
		problems = append(problems, "GENERATION_TIMEOUT must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Warnings lists non-fatal issues worth logging at startup.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.AI.APIKey() == "" {
		warnings = append(warnings, fmt.Sprintf("no API key set for provider %q; plan generation will fail until it is configured", c.AI.Provider))
	}
	return warnings
}
