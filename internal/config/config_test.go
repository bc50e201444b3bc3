package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_ACCESS_TTL_MS", "")
	t.Setenv("JWT_REFRESH_TTL_MS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
}

func TestLoadMillisOverride(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL_MS", "3600000")
	t.Setenv("JWT_REFRESH_TTL_MS", "86400000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL)
	require.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL_MS", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_ACCESS_TTL_MS", "-5")
	_, err = Load()
	require.Error(t, err)
}

func TestCORSList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://tisk.example.com,")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"http://localhost:5173", "https://tisk.example.com"}, cfg.CORS.AllowedOrigins)
}
