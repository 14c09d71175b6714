package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8081", cfg.AppPort)
	assert.Equal(t, "user_accounts", cfg.DynamoTables.UserAccounts)
	assert.Equal(t, "user_profiles", cfg.DynamoTables.UserProfiles)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "portfolio-platform", cfg.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenExpiry)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
}

func TestLoadGatewayDefaults(t *testing.T) {
	cfg := LoadGateway()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8081", cfg.AuthServiceURL)
	assert.Equal(t, "http://localhost:8084", cfg.AssetServiceURL)
}
