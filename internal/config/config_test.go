package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("LOCK_TTL", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 15*time.Second, cfg.LockTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_DurationFromEnv(t *testing.T) {
	t.Setenv("LOCK_TTL", "30")
	t.Setenv("NOTIFY_TIMEOUT", "250ms")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.NotifyTimeout)
}

func TestLoadFile_OverlaysYAML(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("db_driver: postgres\nport: \"9090\"\nlock_backend: local\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "local", cfg.LockBackend)
	assert.Equal(t, "env-host", cfg.DBHost)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
