package identity

import (
	"errors"
	"time"
)

// Config groups all Engine settings. Zero values are filled by
// defaultConfig; Build rejects configurations that fail Validate.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Refresh  RefreshConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls token signing. Tokens are HS256-signed with Secret;
// verification requires no server-side state.
type JWTConfig struct {
	Secret     []byte
	AccessTTL  time.Duration // default 1h
	RefreshTTL time.Duration // default 168h (7 days)
	Issuer     string
	Leeway     time.Duration // clock-skew tolerance on parse, max 2m
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig tunes the argon2id cost parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
REFRESH STORE CONFIG
====================================
*/

// RefreshConfig controls the Redis refresh-token mirror. Keys are laid out
// as "<RedisPrefix>:<accountID>"; the entry TTL always equals
// JWT.RefreshTTL.
type RefreshConfig struct {
	RedisPrefix string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the buffered audit event dispatcher. When the buffer
// is full events are dropped, never blocked on.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
}

// MetricsConfig toggles the in-process flow counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 1h/7d token lifetimes
// and interactive-login argon2id costs. Callers set the secret and override
// what they need.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
			Issuer:     "identity",
			Leeway:     30 * time.Second,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Refresh: RefreshConfig{
			RedisPrefix: "refresh_token",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.JWT.Secret != nil {
		out.JWT.Secret = make([]byte, len(cfg.JWT.Secret))
		copy(out.JWT.Secret, cfg.JWT.Secret)
	}
	return out
}

// Validate checks the cross-cutting invariants Build depends on. Subpackage
// constructors perform their own deeper validation.
func (c Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return errors.New("jwt secret must be at least 32 bytes")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}
	if c.Refresh.RedisPrefix == "" {
		return errors.New("refresh redis prefix required")
	}
	return nil
}
