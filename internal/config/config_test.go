package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
		os.Unsetenv(key)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	unsetEnv(t, "PORT", "API_PROFILE", "STORAGE_DRIVER", "DATA_DIR", "CORS_ORIGINS", "REDIS_DB", "SHUTDOWN_TIMEOUT", "MONGO_DB")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProfileV2, cfg.Profile)
	assert.Equal(t, DriverFile, cfg.StorageDriver)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "productCatalog", cfg.MongoDB)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_PROFILE", "v1")
	t.Setenv("STORAGE_DRIVER", "badger")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example ,")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := LoadConfig()

	assert.Equal(t, ProfileV1, cfg.Profile)
	assert.Equal(t, DriverBadger, cfg.StorageDriver)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown profile", mutate: func(c *Config) { c.Profile = "v3" }, wantErr: "API_PROFILE"},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "s3" }, wantErr: "STORAGE_DRIVER"},
		{name: "mongo without uri", mutate: func(c *Config) { c.StorageDriver = DriverMongo }, wantErr: "MONGO_URI"},
		{name: "mongo with uri", mutate: func(c *Config) {
			c.StorageDriver = DriverMongo
			c.MongoURI = "mongodb://localhost:27017"
		}},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }, wantErr: "PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: "8080", Profile: ProfileV2, StorageDriver: DriverFile}
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
