// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present, then real environment
// variables take precedence over the built-in defaults.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080".
	Addr string

	// DBDriver selects the database/sql driver: "sqlite3" or "mysql".
	DBDriver string

	// DSN is the driver-specific data source name. For sqlite3 this is the
	// database file path; for mysql something like
	// "balift:secret@tcp(127.0.0.1:3306)/balift?parseTime=true".
	DSN string

	// SessionKey authenticates session cookies. Must be set outside of dev.
	SessionKey string

	// SecureCookies marks session cookies Secure; disable for plain-HTTP dev.
	SecureCookies bool
}

const (
	defaultAddr   = "127.0.0.1:8080"
	defaultDriver = "sqlite3"
	defaultDSN    = "balift.sqlite"

	// dev fallback, matching the throwaway secret the app ships with
	defaultSessionKey = "dev"
)

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	// godotenv returns an error when the file is missing; that is the normal
	// case outside of dev checkouts.
	_ = godotenv.Load()

	cfg := Config{
		Addr:          getenv("BALIFT_ADDR", defaultAddr),
		DBDriver:      getenv("BALIFT_DB_DRIVER", defaultDriver),
		DSN:           getenv("BALIFT_DSN", defaultDSN),
		SessionKey:    getenv("BALIFT_SESSION_KEY", defaultSessionKey),
		SecureCookies: getenv("BALIFT_SECURE_COOKIES", "false") == "true",
	}

	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "mysql" {
		return Config{}, fmt.Errorf("unsupported BALIFT_DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
