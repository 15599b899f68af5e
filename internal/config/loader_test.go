package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	// Test basic config loading with defaults
	t.Run("LoadDefaults", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", t.TempDir())

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Verify server defaults
		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		// Verify store defaults
		assert.Equal(t, "libsql", cfg.Store.Driver)
		expectedStorePath := filepath.Join(gfconfig.GetAppDataDir("intake"), "intake.db")
		assert.Equal(t, expectedStorePath, cfg.Store.Path)
		assert.Equal(t, "", cfg.Store.URL)
		assert.Equal(t, "", cfg.Store.AuthToken)

		// Verify auth defaults: TTL set, secret deliberately empty
		assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, "", cfg.Auth.Secret)

		// Verify rate limit defaults
		assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
		assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
		assert.Equal(t, 3, cfg.RateLimit.EvictAfterWindows)

		// Verify logging defaults
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "STRUCTURED", cfg.Logging.Profile)

		// Verify metrics defaults
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)

		// Verify health defaults
		assert.True(t, cfg.Health.Enabled)

		// Verify debug defaults
		assert.False(t, cfg.Debug.Enabled)
		assert.False(t, cfg.Debug.PprofEnabled)
	})

	// Test runtime overrides
	t.Run("RuntimeOverrides", func(t *testing.T) {
		overrides := map[string]any{
			"server": map[string]any{
				"port": 9000,
				"host": "0.0.0.0",
			},
			"logging": map[string]any{
				"level": "debug",
			},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Verify overrides were applied
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)

		// Verify non-overridden values remain default
		assert.Equal(t, "STRUCTURED", cfg.Logging.Profile)
		assert.Equal(t, 9090, cfg.Metrics.Port)
	})

	// Test environment variable overrides
	t.Run("EnvOverrides", func(t *testing.T) {
		require.NoError(t, os.Setenv("INTAKE_PORT", "3000"))
		require.NoError(t, os.Setenv("INTAKE_LOG_LEVEL", "warn"))
		require.NoError(t, os.Setenv("INTAKE_METRICS_ENABLED", "false"))
		require.NoError(t, os.Setenv("INTAKE_RATE_LIMIT_MAX_REQUESTS", "25"))
		require.NoError(t, os.Setenv("INTAKE_AUTH_SECRET", "env-secret"))
		defer func() {
			_ = os.Unsetenv("INTAKE_PORT")
			_ = os.Unsetenv("INTAKE_LOG_LEVEL")
			_ = os.Unsetenv("INTAKE_METRICS_ENABLED")
			_ = os.Unsetenv("INTAKE_RATE_LIMIT_MAX_REQUESTS")
			_ = os.Unsetenv("INTAKE_AUTH_SECRET")
		}()

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Verify env overrides were applied
		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.False(t, cfg.Metrics.Enabled)
		assert.Equal(t, 25, cfg.RateLimit.MaxRequests)
		assert.Equal(t, "env-secret", cfg.Auth.Secret)
	})

	// Test config precedence: runtime > env > defaults
	t.Run("ConfigPrecedence", func(t *testing.T) {
		require.NoError(t, os.Setenv("INTAKE_PORT", "4000"))
		defer func() {
			_ = os.Unsetenv("INTAKE_PORT")
		}()

		overrides := map[string]any{
			"server": map[string]any{
				"port": 5000,
			},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		// Runtime override should take precedence over env var
		assert.Equal(t, 5000, cfg.Server.Port)
	})
}

func TestGetConfig(t *testing.T) {
	ctx := context.Background()

	cfg, err := Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Run("GetConfigReturnsLoadedConfig", func(t *testing.T) {
		retrieved := GetConfig()
		assert.NotNil(t, retrieved)
		assert.Equal(t, cfg.Server.Port, retrieved.Server.Port)
		assert.Equal(t, cfg.Logging.Level, retrieved.Logging.Level)
	})
}

func TestEnvSpecs(t *testing.T) {
	// Need to set app identity for env specs
	ctx := context.Background()
	_, err := Load(ctx)
	require.NoError(t, err)

	specs := getEnvSpecs()
	assert.NotEmpty(t, specs)

	envVarNames := make(map[string]bool)
	for _, spec := range specs {
		envVarNames[spec.Name] = true
	}

	assert.True(t, envVarNames["INTAKE_LOG_LEVEL"], "LOG_LEVEL env var must be mapped")
	assert.True(t, envVarNames["INTAKE_PORT"], "PORT env var must be mapped")
	assert.True(t, envVarNames["INTAKE_HOST"], "HOST env var must be mapped")
	assert.True(t, envVarNames["INTAKE_METRICS_PORT"], "METRICS_PORT env var must be mapped")
	assert.True(t, envVarNames["INTAKE_DB_PATH"], "DB_PATH env var must be mapped")
	assert.True(t, envVarNames["INTAKE_AUTH_SECRET"], "AUTH_SECRET env var must be mapped")
	assert.True(t, envVarNames["INTAKE_RATE_LIMIT_MAX_REQUESTS"], "RATE_LIMIT_MAX_REQUESTS env var must be mapped")
}

func TestDurationParsing(t *testing.T) {
	ctx := context.Background()

	t.Run("DurationFromEnv", func(t *testing.T) {
		require.NoError(t, os.Setenv("INTAKE_READ_TIMEOUT", "45s"))
		require.NoError(t, os.Setenv("INTAKE_RATE_LIMIT_WINDOW", "30s"))
		require.NoError(t, os.Setenv("INTAKE_AUTH_TOKEN_TTL", "2h"))
		defer func() {
			_ = os.Unsetenv("INTAKE_READ_TIMEOUT")
			_ = os.Unsetenv("INTAKE_RATE_LIMIT_WINDOW")
			_ = os.Unsetenv("INTAKE_AUTH_TOKEN_TTL")
		}()

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
		assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	})
}

func TestConfigReload(t *testing.T) {
	ctx := context.Background()

	cfg1, err := Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg1)
	initialPort := cfg1.Server.Port

	overrides := map[string]any{
		"server": map[string]any{
			"port": initialPort + 1000,
		},
	}

	cfg2, err := Load(ctx, overrides)
	require.NoError(t, err)
	require.NotNil(t, cfg2)

	assert.Equal(t, initialPort+1000, cfg2.Server.Port)

	current := GetConfig()
	assert.Equal(t, cfg2.Server.Port, current.Server.Port)
}
