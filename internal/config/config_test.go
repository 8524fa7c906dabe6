package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 50, cfg.OutboxBatchSize)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DB().Driver)
	assert.Equal(t, ":memory:", cfg.DB().Path)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "leave.yaml")
	assert.NoError(t, os.WriteFile(file, []byte("port: \"9090\"\nrate_limit_burst: 5\n"), 0o600))
	t.Setenv("CONFIG_FILE", file)

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: "3000", DBDriver: "mysql"}
	assert.EqualError(t, cfg.Validate(), "config: DB_DRIVER must be postgres or sqlite")

	cfg = &Config{Port: "3000", DBDriver: "postgres", AppEnv: "production"}
	assert.EqualError(t, cfg.Validate(), "config: JWT_SECRET is required in production")

	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	dev, err := (&Config{AppEnv: "development"}).NewLogger()
	assert.NoError(t, err)
	assert.True(t, dev.Core().Enabled(-1))

	prod, err := (&Config{AppEnv: "production"}).NewLogger()
	assert.NoError(t, err)
	assert.False(t, prod.Core().Enabled(-1))
}
