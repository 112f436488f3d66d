package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg := FromEnv()

	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.True(t, cfg.Storage.RecoverCorrupt)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Security.HashPasswords)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/store")
	t.Setenv("STORAGE_RECOVER_CORRUPT", "false")
	t.Setenv("JWT_ACCESS_EXPIRE", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "/var/lib/store", cfg.Storage.DataDir)
	assert.False(t, cfg.Storage.RecoverCorrupt)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"short secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = "short"
		}, "JWT_SECRET"},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = " " }, "DATA_DIR"},
		{"bcrypt cost out of range", func(c *Config) { c.Security.BcryptCost = 40 }, "BCRYPT_COST"},
		{"bcrypt cost ignored when hashing off", func(c *Config) {
			c.Security.HashPasswords = false
			c.Security.BcryptCost = 0
		}, ""},
		{"redis without host", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Host = ""
		}, "REDIS_HOST"},
		{"empty port", func(c *Config) { c.Server.Port = "" }, "APP_PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			cfg.App.Environment = "development"
			cfg.JWT.Secret = "a-secret-that-is-long-enough-for-tests"
			cfg.Storage.DataDir = "./data"
			cfg.Security.HashPasswords = true
			cfg.Security.BcryptCost = 10
			cfg.Redis.Enabled = false
			cfg.Server.Port = "8080"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
