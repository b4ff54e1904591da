package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds runtime settings, loaded once at startup from the environment.
//
// Fields:
//   - AccessSecret: HMAC secret for signing access tokens (HS256), min 64 bytes.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - ClientBaseURL: the single origin allowed by CORS (credentialed cookies).
//   - Production: switches cookie attributes (Secure, SameSite=None, Partitioned).
type Config struct {
	Port               string
	DatabaseDSN        string
	AccessSecret       []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	ClientBaseURL      string
	Production         bool
	ResendAPIKey       string
	ContactReceiver    string
	TurnstileSecret    string
	TurnstileVerifyURL string
}

const defaultTurnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// loadConfig reads the environment (after autoloading ./.env) and validates
// the parts the process cannot run without.
func loadConfig() (Config, error) {
	loadDotEnv()

	cfg := Config{
		Port:               envOr("PORT", "3000"),
		DatabaseDSN:        os.Getenv("DB_DSN"),
		ClientBaseURL:      envOr("CLIENT_BASE_URL", "http://localhost:5173"),
		Production:         os.Getenv("APP_ENV") == "production",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    30 * 24 * time.Hour,
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		ContactReceiver:    os.Getenv("CONTACT_RECEIVER_EMAIL"),
		TurnstileSecret:    os.Getenv("TURNSTILE_SECRET_KEY"),
		TurnstileVerifyURL: envOr("TURNSTILE_VERIFY_URL", defaultTurnstileVerifyURL),
	}

	secret := os.Getenv("ACCESS_JWT_SECRET")
	if len(secret) < 64 {
		return cfg, fmt.Errorf("ACCESS_JWT_SECRET is required and must be at least 64 characters long")
	}
	cfg.AccessSecret = []byte(secret)

	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %v", err)
		}
		cfg.AccessTokenTTL = d
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %v", err)
		}
		cfg.RefreshTokenTTL = d
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
