package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	dErrors "nadra/pkg/domain-errors"
)

// Config captures everything the server needs from the environment.
type Config struct {
	Addr string

	// JWT settings. SigningKey must be set; an empty key is a startup-fatal
	// configuration error, never a per-request one.
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	JWTValidity   time.Duration

	// DatabaseURL switches the stores to PostgreSQL when set.
	DatabaseURL string
	// RedisURL switches the token revocation list to Redis when set.
	RedisURL string

	// Seed admin account, created on first boot if absent.
	AdminEmail    string
	AdminPassword string
}

// Load builds the config from environment variables, reading a .env file
// first when present so local development stays declarative.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("NADRA_ADDR", ":8080"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		JWTIssuer:     getenv("JWT_ISSUER", "nadra"),
		JWTAudience:   getenv("JWT_AUDIENCE", "nadra-clients"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin@nadra.gov.pk"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.JWTSigningKey == "" {
		return Config{}, dErrors.New(dErrors.CodeInvalidInput, "JWT_SIGNING_KEY must be set")
	}

	minutes, err := strconv.Atoi(getenv("JWT_EXPIRY_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		return Config{}, dErrors.New(dErrors.CodeInvalidInput, "JWT_EXPIRY_MINUTES must be a positive integer")
	}
	cfg.JWTValidity = time.Duration(minutes) * time.Minute

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
