package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"xav-address-service/internal/config"
)

func resetFlags(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	oldCommandLine := pflag.CommandLine

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pflag.CommandLine = fs
	os.Args = append([]string{"cmd"}, args...)

	t.Cleanup(func() {
		os.Args = oldArgs
		pflag.CommandLine = oldCommandLine
	})
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("XAV_ACCESS_KEY", "access")
	t.Setenv("XAV_USERNAME", "user")
	t.Setenv("XAV_PASSWORD", "secret")
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT",
		"XAV_ENVIRONMENT", "XAV_ENDPOINT", "XAV_OPERATION", "XAV_STREET_LEVEL", "XAV_TIMEOUT", "XAV_COUNTRIES",
		"DEBUG_ENABLED", "DEBUG_SINK", "DEBUG_FILE", "DEBUG_S3_BUCKET", "DEBUG_S3_KEY", "DEBUG_S3_REGION", "DEBUG_S3_ENDPOINT",
		"DEBUG_ADDR", "DEBUG_USER", "DEBUG_PASS",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_TTL",
		"SENTRY_DSN", "SENTRY_ENVIRONMENT", "SENTRY_RELEASE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	setCredentials(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, config.TestEndpoint, cfg.Carrier.Endpoint)
	require.Equal(t, "ProcessXAV", cfg.Carrier.Operation)
	require.True(t, cfg.Carrier.StreetLevel)
	require.Equal(t, 5*time.Second, cfg.Carrier.Timeout)
	require.Equal(t, []string{"US", "CA", "PR"}, cfg.Carrier.Countries)
	require.False(t, cfg.Debug.Enabled)
	require.Equal(t, "/tmp/UPSResult.xml", cfg.Debug.File)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, "access", cfg.Carrier.AccessKey)
	require.Equal(t, "user", cfg.Carrier.Username)
	require.Equal(t, "secret", cfg.Carrier.Password)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	setCredentials(t)

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("XAV_ENVIRONMENT", "production")
	t.Setenv("XAV_STREET_LEVEL", "false")
	t.Setenv("XAV_TIMEOUT", "2s")
	t.Setenv("XAV_COUNTRIES", "us, pr")
	t.Setenv("DEBUG_ENABLED", "true")
	t.Setenv("DEBUG_SINK", "s3")
	t.Setenv("DEBUG_S3_BUCKET", "diag")
	t.Setenv("RATE_LIMIT_RPS", "1.5")
	t.Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "console", cfg.Log.Format)
	require.Equal(t, config.ProductionEndpoint, cfg.Carrier.Endpoint)
	require.False(t, cfg.Carrier.StreetLevel)
	require.Equal(t, 2*time.Second, cfg.Carrier.Timeout)
	require.Equal(t, []string{"US", "PR"}, cfg.Carrier.Countries)
	require.True(t, cfg.Debug.Enabled)
	require.Equal(t, "s3", cfg.Debug.Sink)
	require.Equal(t, "diag", cfg.Debug.S3Bucket)
	require.Equal(t, "UPSResult.xml", cfg.Debug.S3Key)
	require.Equal(t, 1.5, cfg.RateLimit.Rate)
	require.Equal(t, 3, cfg.RateLimit.Burst)
	require.Equal(t, "production", cfg.Sentry.Environment)
}

func TestLoad_ExplicitEndpointWins(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	setCredentials(t)

	t.Setenv("XAV_ENVIRONMENT", "production")
	t.Setenv("XAV_ENDPOINT", "http://127.0.0.1:9999/xav")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9999/xav", cfg.Carrier.Endpoint)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	resetFlags(t, "--port=7070", "--xav-env=production", "--debug")
	clearEnv(t)
	setCredentials(t)
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, config.ProductionEndpoint, cfg.Carrier.Endpoint)
	require.True(t, cfg.Debug.Enabled)
}

func TestLoad_MissingCredentials(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	t.Setenv("XAV_ACCESS_KEY", "")
	t.Setenv("XAV_USERNAME", "")
	t.Setenv("XAV_PASSWORD", "")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "credentials")
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"port out of range":   {"PORT", "70000"},
		"port not a number":   {"PORT", "abc"},
		"bad timeout":         {"XAV_TIMEOUT", "soon"},
		"zero timeout":        {"XAV_TIMEOUT", "0s"},
		"bad environment":     {"XAV_ENVIRONMENT", "staging"},
		"bad street level":    {"XAV_STREET_LEVEL", "maybe"},
		"bad log format":      {"LOG_FORMAT", "xml"},
		"bad rate limit rate": {"RATE_LIMIT_RPS", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			resetFlags(t)
			clearEnv(t)
			setCredentials(t)
			t.Setenv(kv[0], kv[1])

			cfg, err := config.Load()
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}

func TestLoad_DebugSinkValidation(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	setCredentials(t)
	t.Setenv("DEBUG_ENABLED", "true")
	t.Setenv("DEBUG_SINK", "s3")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "DEBUG_S3_BUCKET")
}

func TestLoad_FlagsParseError(t *testing.T) {
	resetFlags(t, "--port=not-a-number")
	clearEnv(t)
	setCredentials(t)

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}

func TestDefaults_AreCopies(t *testing.T) {
	c := config.DefaultCarrier()
	c.Countries[0] = "XX"
	require.Equal(t, "US", config.DefaultCarrier().Countries[0])
	require.Equal(t, 8080, config.DefaultPort())
	require.Equal(t, "file", config.DefaultDebug().Sink)
	require.Equal(t, 10*time.Minute, config.DefaultRateLimit().TTL)
}

func TestLoad_DebugListener(t *testing.T) {
	resetFlags(t, "--debug-addr=127.0.0.1:6060")
	clearEnv(t)
	setCredentials(t)
	t.Setenv("DEBUG_USER", "ops")
	t.Setenv("DEBUG_PASS", "pw")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:6060", cfg.Debug.Addr)
	require.Equal(t, "ops", cfg.Debug.User)
	require.Equal(t, "pw", cfg.Debug.Pass)
}

func TestLoad_DebugListenerHalfCredentials(t *testing.T) {
	resetFlags(t)
	clearEnv(t)
	setCredentials(t)
	t.Setenv("DEBUG_USER", "ops")

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DEBUG_PASS")
}
