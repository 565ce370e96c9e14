package config

import "time"

const defaultPort = 8080

// Carrier endpoints. The test endpoint only answers for a handful of states.
const (
	TestEndpoint       = "https://wwwcie.ups.com/webservices/XAV"
	ProductionEndpoint = "https://onlinetools.ups.com/webservices/XAV"
)

var defaultCarrier = Carrier{
	Environment: "test",
	Operation:   "ProcessXAV",
	StreetLevel: true,
	Timeout:     5 * time.Second,
	Countries:   []string{"US", "CA", "PR"},
}

var defaultLog = Log{
	Level:  "info",
	Format: "json",
}

var defaultDebug = Debug{
	Enabled:  false,
	Sink:     "file",
	File:     "/tmp/UPSResult.xml",
	S3Key:    "UPSResult.xml",
	S3Region: "us-east-1",
}

var defaultRateLimit = RateLimit{
	Enabled: true,
	Rate:    5,
	Burst:   10,
	TTL:     10 * time.Minute,
}

// DefaultPort returns the default HTTP port.
func DefaultPort() int { return defaultPort }

// DefaultCarrier returns the default carrier settings (without credentials).
func DefaultCarrier() Carrier {
	c := defaultCarrier
	c.Countries = append([]string(nil), defaultCarrier.Countries...)
	return c
}

// DefaultDebug returns the default diagnostics settings.
func DefaultDebug() Debug { return defaultDebug }

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }
