package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "development")

	LoadConfig()

	assert.Equal(t, "8080", AppConfig.ServerPort)
	assert.Equal(t, "test-secret", AppConfig.JWTSecret)
	assert.Equal(t, 72*time.Hour, AppConfig.SessionTTL)
	assert.True(t, AppConfig.SeedData)
	assert.Equal(t, int64(20<<20), AppConfig.MaxUploadBytes)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOGIN_RATE_LIMIT_PER_MINUTE", "3")
	t.Setenv("MINIO_USE_SSL", "true")

	LoadConfig()

	assert.Equal(t, 30*time.Minute, AppConfig.SessionTTL)
	assert.Equal(t, 3, AppConfig.LoginRateLimitPerMinute)
	assert.True(t, AppConfig.MinioUseSSL)
	assert.False(t, AppConfig.SeedData)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("WORKER_POOL_SIZE", "many")

	LoadConfig()

	assert.Equal(t, 72*time.Hour, AppConfig.SessionTTL)
	assert.Equal(t, 4, AppConfig.WorkerPoolSize)
}

func TestGenerateRandomSecret(t *testing.T) {
	a := generateRandomSecret(32)
	b := generateRandomSecret(32)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
