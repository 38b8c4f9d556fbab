package keystoreauth

import (
	"errors"
	"time"
)

// Config defines a public type used by keystoreauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Audit   AuditConfig
	Metrics MetricsConfig
	Cache   CacheConfig
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by keystoreauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds allow events when the dispatch buffer is full.
	// Deny, system-error, and backend-error events are exempt: they wait
	// for buffer space instead of being dropped.
	DropIfFull bool
	// IncludeAllowed emits audit events for allow verdicts too. Denies,
	// system errors, and backend faults are always emitted when auditing
	// is enabled.
	IncludeAllowed bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by keystoreauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig controls the optional Redis-backed namespace-resolution
// cache. Resolution results are the only thing cached; access-check
// verdicts never are. Disabled by default.
type CacheConfig struct {
	Enabled     bool
	RedisPrefix string
	TTL         time.Duration
}

func defaultConfig() Config {
	return Config{
		Audit: AuditConfig{
			Enabled:        true,
			BufferSize:     256,
			DropIfFull:     true,
			IncludeAllowed: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Cache: CacheConfig{
			Enabled:     false,
			RedisPrefix: "ksns",
			TTL:         5 * time.Minute,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must not be negative")
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return errors.New("cache TTL must be positive")
		}
		if c.Cache.RedisPrefix == "" {
			return errors.New("cache redis prefix must not be empty")
		}
	}
	return nil
}
