package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// AI gateway (OpenAI-compatible chat completions endpoint)
	GatewayURL   string
	GatewayKey   string
	GatewayModel string

	// Auth
	JWTSecret string

	// Rate limiting for the chat and simplify endpoints
	ChatRateLimit  int
	ChatRateWindow time.Duration

	// Progress report emails via SES
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./lernbuddy.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		GatewayURL:   getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
		GatewayKey:   getEnv("AI_GATEWAY_KEY", ""),
		GatewayModel: getEnv("AI_MODEL", "google/gemini-2.5-flash"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ChatRateLimit:  getEnvInt("CHAT_RATE_LIMIT", 30),
		ChatRateWindow: time.Minute,

		AWSRegion:    getEnv("AWS_REGION", "eu-central-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Lernbuddy"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
