package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port      int
	Log       Log
	Carrier   Carrier
	Debug     Debug
	RateLimit RateLimit
	Sentry    Sentry
}

// Log configures the process logger.
type Log struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// Carrier holds the address validation service settings and credentials.
type Carrier struct {
	Environment string // test or production, picks the default endpoint
	Endpoint    string
	Operation   string
	AccessKey   string
	Username    string
	Password    string
	StreetLevel bool
	Timeout     time.Duration
	Countries   []string
}

// Debug configures where the last raw carrier response is kept.
type Debug struct {
	Enabled    bool
	Sink       string // file or s3
	File       string
	S3Bucket   string
	S3Key      string
	S3Region   string
	S3Endpoint string
	// Addr enables the debug listener (pprof and the last carrier response).
	Addr string
	User string
	Pass string
}

// RateLimit configures per-client limiting on the validation endpoint.
type RateLimit struct {
	Enabled bool
	Rate    float64
	Burst   int
	TTL     time.Duration
}

// Sentry configures error reporting. Empty DSN disables it.
type Sentry struct {
	DSN         string
	Environment string
	Release     string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		Log:       defaultLog,
		Carrier:   DefaultCarrier(),
		Debug:     defaultDebug,
		RateLimit: defaultRateLimit,
	}

	if err := fromEnv(cfg); err != nil {
		return nil, err
	}
	if err := fromFlags(cfg); err != nil {
		return nil, err
	}
	if cfg.Carrier.Endpoint == "" {
		endpoint, err := endpointFor(cfg.Carrier.Environment)
		if err != nil {
			return nil, err
		}
		cfg.Carrier.Endpoint = endpoint
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.Log.Level = envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envString("LOG_FORMAT", cfg.Log.Format)

	c := &cfg.Carrier
	c.Environment = envString("XAV_ENVIRONMENT", c.Environment)
	c.Endpoint = envString("XAV_ENDPOINT", c.Endpoint)
	c.Operation = envString("XAV_OPERATION", c.Operation)
	c.AccessKey = envString("XAV_ACCESS_KEY", c.AccessKey)
	c.Username = envString("XAV_USERNAME", c.Username)
	c.Password = envString("XAV_PASSWORD", c.Password)
	if c.StreetLevel, err = envBool("XAV_STREET_LEVEL", c.StreetLevel); err != nil {
		return err
	}
	if c.Timeout, err = envDuration("XAV_TIMEOUT", c.Timeout); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("XAV_COUNTRIES")); v != "" {
		c.Countries = splitList(v)
	}

	d := &cfg.Debug
	if d.Enabled, err = envBool("DEBUG_ENABLED", d.Enabled); err != nil {
		return err
	}
	d.Sink = envString("DEBUG_SINK", d.Sink)
	d.File = envString("DEBUG_FILE", d.File)
	d.S3Bucket = envString("DEBUG_S3_BUCKET", d.S3Bucket)
	d.S3Key = envString("DEBUG_S3_KEY", d.S3Key)
	d.S3Region = envString("DEBUG_S3_REGION", d.S3Region)
	d.S3Endpoint = envString("DEBUG_S3_ENDPOINT", d.S3Endpoint)
	d.Addr = envString("DEBUG_ADDR", d.Addr)
	d.User = envString("DEBUG_USER", d.User)
	d.Pass = envString("DEBUG_PASS", d.Pass)

	rl := &cfg.RateLimit
	if rl.Enabled, err = envBool("RATE_LIMIT_ENABLED", rl.Enabled); err != nil {
		return err
	}
	if rl.Rate, err = envFloat("RATE_LIMIT_RPS", rl.Rate); err != nil {
		return err
	}
	if rl.Burst, err = envInt("RATE_LIMIT_BURST", rl.Burst); err != nil {
		return err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return err
	}

	cfg.Sentry.DSN = envString("SENTRY_DSN", cfg.Sentry.DSN)
	cfg.Sentry.Environment = envString("SENTRY_ENVIRONMENT", cfg.Carrier.Environment)
	cfg.Sentry.Release = envString("SENTRY_RELEASE", cfg.Sentry.Release)
	return nil
}

func fromFlags(cfg *Config) error {
	fs := pflag.CommandLine
	if !fs.Parsed() {
		fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
		fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
		fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format (json, console)")
		fs.StringVar(&cfg.Carrier.Environment, "xav-env", cfg.Carrier.Environment, "carrier environment (test, production)")
		fs.StringVar(&cfg.Carrier.Endpoint, "xav-endpoint", cfg.Carrier.Endpoint, "carrier endpoint URL, overrides --xav-env")
		fs.BoolVar(&cfg.Debug.Enabled, "debug", cfg.Debug.Enabled, "keep the last raw carrier response")
		fs.StringVar(&cfg.Debug.Addr, "debug-addr", cfg.Debug.Addr, "debug listener address, empty disables it")
		if err := fs.Parse(os.Args[1:]); err != nil {
			return fmt.Errorf("parse flags: %w", err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if c.Carrier.AccessKey == "" || c.Carrier.Username == "" || c.Carrier.Password == "" {
		return errors.New("carrier credentials are required: XAV_ACCESS_KEY, XAV_USERNAME, XAV_PASSWORD")
	}
	if c.Carrier.Operation == "" {
		return errors.New("invalid carrier operation: empty")
	}
	if c.Carrier.Timeout <= 0 {
		return fmt.Errorf("invalid carrier timeout: %s", c.Carrier.Timeout)
	}
	if len(c.Carrier.Countries) == 0 {
		return errors.New("invalid carrier countries: empty")
	}
	if c.Debug.Enabled {
		switch c.Debug.Sink {
		case "file":
			if c.Debug.File == "" {
				return errors.New("invalid debug file: empty")
			}
		case "s3":
			if c.Debug.S3Bucket == "" || c.Debug.S3Key == "" {
				return errors.New("debug s3 sink requires DEBUG_S3_BUCKET and DEBUG_S3_KEY")
			}
		default:
			return fmt.Errorf("invalid debug sink: %q", c.Debug.Sink)
		}
	}
	if (c.Debug.User == "") != (c.Debug.Pass == "") {
		return errors.New("debug listener requires both DEBUG_USER and DEBUG_PASS")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate limit: rate=%v burst=%d", c.RateLimit.Rate, c.RateLimit.Burst)
	}
	return nil
}

func endpointFor(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test", "":
		return TestEndpoint, nil
	case "production", "prod":
		return ProductionEndpoint, nil
	default:
		return "", fmt.Errorf("invalid carrier environment: %q", env)
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
