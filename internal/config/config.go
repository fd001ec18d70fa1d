package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBPath             string
	AdminPassword      string
	DiscordWebhookURL  string
	StatusAPIBase      string
	RecentPurchasesURL string
	CSRFKey            []byte
	SessionKey         []byte
	CookieDomain       string
	CookieSecure       bool
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8585"),
		DBPath:             getEnv("DB_PATH", "./anachak.db"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		DiscordWebhookURL:  os.Getenv("DISCORD_WEBHOOK_URL"),
		StatusAPIBase:      getEnv("STATUS_API_BASE", ""),
		RecentPurchasesURL: getEnv("RECENT_PURCHASES_URL", ""),
		CookieDomain:       getEnv("COOKIE_DOMAIN", ""),
		CookieSecure:       getEnv("COOKIE_SECURE", "false") == "true",
	}

	if cfg.AdminPassword == "" {
		slog.Warn("ADMIN_PASSWORD is not set. Admin login will be rejected until it is configured.")
	}
	if cfg.DiscordWebhookURL == "" {
		slog.Warn("DISCORD_WEBHOOK_URL is not set. Purchase submissions will be rejected until it is configured.")
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	return cfg, nil
}

// loadKey reads a base64 32-byte key from the environment, generating a
// random development key when it is missing or invalid.
func loadKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. This key will change on each restart. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes recommended). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		os.Exit(1)
	}
	return b
}
