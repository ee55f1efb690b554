package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_NAME":           "jobboard",
		"APP_ENV":            "development",
		"HTTP_PORT":          "8080",
		"DB_HOST":            "localhost",
		"DB_NAME":            "jobboard",
		"DB_USER":            "postgres",
		"JWT_ACCESS_SECRET":  "a",
		"JWT_REFRESH_SECRET": "r",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, "5432", cfg.Database.DBPort)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, "disk", cfg.Storage.Driver)
	assert.Equal(t, 20, cfg.RateLimit.AuthPerMinute)
	assert.Equal(t, 10*1024*1024, cfg.App.BodyLimit)
	assert.False(t, cfg.Database.MigrateOnStart)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_ACCESS_SECRET", " ")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestLoad_InvalidValues(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "soon")
	t.Setenv("RATE_LIMIT_AUTH_PER_MINUTE", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ACCESS_EXPIRES_IN")
	assert.Contains(t, err.Error(), "RATE_LIMIT_AUTH_PER_MINUTE")
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	setRequired(t)
	t.Setenv("STORAGE_DRIVER", "S3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_S3_BUCKET")
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, AppConfig{Environment: "LOCAL"}.IsDevelopment())
	assert.False(t, AppConfig{Environment: "production"}.IsDevelopment())
}
