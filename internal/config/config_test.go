package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("MAX_IMAGE_BYTES", "")
	t.Setenv("STORAGE_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.EqualValues(t, 2*1024*1024, cfg.MaxImageBytes)
	assert.Equal(t, DefaultStorageTimeout, cfg.StorageTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("MAX_IMAGE_BYTES", "1024")
	t.Setenv("STORAGE_TIMEOUT", "250ms")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.EqualValues(t, 1024, cfg.MaxImageBytes)
	assert.Equal(t, 250*time.Millisecond, cfg.StorageTimeout)
}

func TestLoadMalformedFallsBack(t *testing.T) {
	t.Setenv("MAX_IMAGE_BYTES", "lots")
	t.Setenv("STORAGE_TIMEOUT", "-3s")

	cfg := Load()

	assert.EqualValues(t, DefaultMaxImageBytes, cfg.MaxImageBytes)
	assert.Equal(t, DefaultStorageTimeout, cfg.StorageTimeout)
}
