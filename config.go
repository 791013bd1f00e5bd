package emsgate

import (
	"errors"
	"time"
)

// Config controls Controller behavior. Configure it once before Build; the
// Controller clones it and treats it as immutable afterwards.
type Config struct {
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls how Restore resolves a persisted session.
type SessionConfig struct {
	// RefreshProfileOnRestore fetches the current profile when a token is
	// persisted without a cached user. Requires a ProfileFetcher; when either
	// is missing a token without a profile resolves unauthenticated.
	RefreshProfileOnRestore bool

	// LocalExpiryCheck inspects the bearer token's exp claim before the
	// profile fetch and skips the round-trip for a token that is already
	// expired. Advisory only; the server remains the authority.
	LocalExpiryCheck bool

	// ExpirySkew is the clock tolerance applied by LocalExpiryCheck.
	ExpirySkew time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counter and histogram set.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RefreshProfileOnRestore: true,
			LocalExpiryCheck:        false,
			ExpirySkew:              30 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone exists so later slice or map
	// fields cannot alias caller-owned memory.
	return cfg
}

// Validate reports configuration combinations that cannot work at runtime.
func (c Config) Validate() error {
	if c.Session.ExpirySkew < 0 {
		return errors.New("Session ExpirySkew must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit BufferSize must not be negative")
	}
	return nil
}
