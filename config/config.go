package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

// DevJWTSecret is the fallback session signing secret for non-production
// runs. Production refuses to start with it.
const DevJWTSecret = "memberbase-dev-secret"

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Storage: directory holding the SQLite user database
	DataDir string

	// Session signing secret
	JWTSecret string

	// Password hashing cost; 0 picks the bcrypt default
	BcryptCost int

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "memberbase"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DataDir: getenv("DATA_DIR", "./data"),

		JWTSecret:  getenv("JWT_SECRET", ""),
		BcryptCost: getint("BCRYPT_COST", 0),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		// Debug metrics toggle (default true to match local tooling)
		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),

		// HTTP access log toggle (default false; enable when needed)
		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
	}
}

// SessionSecret returns the signing secret to use and whether the built-in
// development fallback is in play. Production requires a real secret.
func (c *Config) SessionSecret() (string, bool, error) {
	if c.JWTSecret != "" && c.JWTSecret != DevJWTSecret {
		return c.JWTSecret, false, nil
	}
	if c.Env == "production" {
		return "", false, errors.New("JWT_SECRET must be set in production")
	}
	return DevJWTSecret, true, nil
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
