package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, []string{"application/pdf"}, cfg.Storage.AllowedMIMEs)
	assert.Equal(t, int64(20*1024*1024), cfg.Storage.MaxFileSizeBytes)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("S3_BUCKET", "study-pdfs")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://cdn.example.com/materials/")
	t.Setenv("BROWSE_CACHE_TTL", "not-a-duration")
	t.Setenv("ALLOWED_ORIGINS", "https://hub.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, "study-pdfs", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.UsePathStyle)
	assert.Equal(t, "https://cdn.example.com/materials", cfg.Storage.PublicBaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, []string{"https://hub.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}
