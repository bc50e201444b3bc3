package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string
	Auth     AuthConfig
	Admin    AdminConfig
	CORS     CORSConfig
}

type AuthConfig struct {
	// JWTSecret is base64; decoding and length checks happen when the
	// token codec is constructed.
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AdminConfig struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (Config, error) {
	accessTTL, err := getenvMillis("JWT_ACCESS_TTL_MS", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := getenvMillis("JWT_REFRESH_TTL_MS", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
		Admin: AdminConfig{
			Email:     os.Getenv("ADMIN_EMAIL"),
			Password:  os.Getenv("ADMIN_PASSWORD"),
			FirstName: getenv("ADMIN_FIRST_NAME", "Admin"),
			LastName:  getenv("ADMIN_LAST_NAME", "Admin"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getenvMillis reads a millisecond count, the unit the token TTLs have
// always been configured in.
func getenvMillis(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, val)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
