package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DatabaseURL  string
	MenuURL      string
	MenuFile     string
	ExportDir    string
	JWTSecret    string
	ClerkPINHash string
}

// Load reads configuration from the environment, honoring a local .env file
// when present. An empty DATABASE_URL selects the in-memory store; an empty
// CLERK_PIN_HASH disables authentication.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8081"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		MenuURL:      getEnv("MENU_URL", ""),
		MenuFile:     getEnv("MENU_FILE", "menu.json"),
		ExportDir:    getEnv("EXPORT_DIR", "exports"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		ClerkPINHash: getEnv("CLERK_PIN_HASH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
