// Package config loads application configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is constructed once in main
// and passed explicitly to every component that needs it.
type Config struct {
	// Server
	Port string
	Env  string

	// JWT
	JWTSecret       string
	SessionTokenTTL time.Duration
	PhaseTokenTTL   time.Duration

	// SMTP
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Links embedded in outbound emails
	FrontendURL string

	// Photo uploads
	UploadDir string
}

// Load reads configuration from environment variables, with a .env file
// as an optional source.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		JWTSecret:       getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		SessionTokenTTL: getDuration("SESSION_TOKEN_TTL", 5*time.Hour),
		PhaseTokenTTL:   getDuration("PHASE_TOKEN_TTL", 15*time.Minute),

		SMTPHost: getEnv("EMAIL_HOST", "localhost"),
		SMTPPort: getInt("EMAIL_PORT", 587),
		SMTPUser: getEnv("EMAIL_USER", ""),
		SMTPPass: getEnv("EMAIL_PASS", ""),
		MailFrom: getEnv("EMAIL_FROM", "Money Log <no-reply@moneylog.local>"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
