package otpAuth

import (
	"errors"
	"strings"
	"time"
)

// Config is the full Engine configuration. Start from DefaultConfig and
// override what you need.
type Config struct {
	OTP       OTPConfig       `yaml:"otp"`
	Seed      SeedConfig      `yaml:"seed"`
	Registry  RegistryConfig  `yaml:"registry"`
	Security  SecurityConfig  `yaml:"security"`
	Assertion AssertionConfig `yaml:"assertion"`
	Events    EventsConfig    `yaml:"events"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

/*
====================================
OTP CONFIG
====================================
*/

// MovingFactorPolicy selects what advances the OTP window.
type MovingFactorPolicy string

const (
	// PolicyTime derives the window from wall-clock time: now / Period.
	PolicyTime MovingFactorPolicy = "time"
	// PolicyCounter derives the window from the last consumed index + 1.
	PolicyCounter MovingFactorPolicy = "counter"
)

type OTPConfig struct {
	Policy    MovingFactorPolicy `yaml:"policy"`
	Digits    int                `yaml:"digits"`
	Algorithm string             `yaml:"algorithm"`
	Period    time.Duration      `yaml:"period"`
	// Skew is the number of neighbouring time windows accepted on each side.
	// Ignored under PolicyCounter.
	Skew int `yaml:"skew"`
}

/*
====================================
SEED CONFIG
====================================
*/

// SeedConfig tunes the Argon2id stretch applied to seeds at registration.
type SeedConfig struct {
	MaxLength   int    `yaml:"max_length"`
	Memory      uint32 `yaml:"memory"`
	Time        uint32 `yaml:"time"`
	Parallelism uint8  `yaml:"parallelism"`
	KeyLength   uint32 `yaml:"key_length"`
}

/*
====================================
REGISTRY CONFIG
====================================
*/

type RegistryConfig struct {
	RedisPrefix       string `yaml:"redis_prefix"`
	MaxUsernameLength int    `yaml:"max_username_length"`
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig controls failed-attempt limiting. MaxAuthAttempts == 0
// disables it.
type SecurityConfig struct {
	MaxAuthAttempts int           `yaml:"max_auth_attempts"`
	AuthCooldown    time.Duration `yaml:"auth_cooldown"`
}

/*
====================================
ASSERTION CONFIG
====================================
*/

type AssertionConfig struct {
	Enabled        bool          `yaml:"enabled"`
	TTL            time.Duration `yaml:"ttl"`
	SigningMethod  string        `yaml:"signing_method"`
	PrivateKey     []byte        `yaml:"-"`
	PublicKey      []byte        `yaml:"-"`
	PrivateKeyFile string        `yaml:"private_key_file"`
	PublicKeyFile  string        `yaml:"public_key_file"`
	Issuer         string        `yaml:"issuer"`
	Audience       string        `yaml:"audience"`
	Leeway         time.Duration `yaml:"leeway"`
	KeyID          string        `yaml:"key_id"`
}

/*
====================================
EVENTS / METRICS CONFIG
====================================
*/

type EventsConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BufferSize  int           `yaml:"buffer_size"`
	DropIfFull  bool          `yaml:"drop_if_full"`
	SinkTimeout time.Duration `yaml:"sink_timeout"`
}

type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns a time-based, 6-digit, HMAC-SHA256 configuration
// with events enabled and limiting disabled.
func DefaultConfig() Config {
	return Config{
		OTP: OTPConfig{
			Policy:    PolicyTime,
			Digits:    6,
			Algorithm: "SHA256",
			Period:    30 * time.Second,
			Skew:      0,
		},
		Seed: SeedConfig{
			MaxLength:   1024,
			Memory:      19456,
			Time:        2,
			Parallelism: 1,
			KeyLength:   32,
		},
		Registry: RegistryConfig{
			RedisPrefix:       "otp",
			MaxUsernameLength: 64,
		},
		Security: SecurityConfig{
			MaxAuthAttempts: 0,
			AuthCooldown:    5 * time.Minute,
		},
		Assertion: AssertionConfig{
			Enabled:       false,
			TTL:           2 * time.Minute,
			SigningMethod: "ed25519",
			Issuer:        "otpauth",
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Assertion.PrivateKey = cloneBytes(cfg.Assertion.PrivateKey)
	out.Assertion.PublicKey = cloneBytes(cfg.Assertion.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	// OTP
	switch c.OTP.Policy {
	case PolicyTime, PolicyCounter:
	default:
		return errors.New("OTP Policy must be 'time' or 'counter'")
	}
	if c.OTP.Digits != 6 && c.OTP.Digits != 8 {
		return errors.New("OTP Digits must be 6 or 8")
	}
	switch strings.ToUpper(c.OTP.Algorithm) {
	case "SHA1", "SHA256", "SHA512":
	default:
		return errors.New("OTP Algorithm must be SHA1, SHA256, or SHA512")
	}
	if c.OTP.Policy == PolicyTime {
		if c.OTP.Period < time.Second || c.OTP.Period%time.Second != 0 {
			return errors.New("OTP Period must be a whole number of seconds >= 1s")
		}
		if c.OTP.Skew < 0 || c.OTP.Skew > 2 {
			return errors.New("OTP Skew must be between 0 and 2")
		}
	}

	// Seed
	if c.Seed.MaxLength <= 0 || c.Seed.MaxLength > 1024 {
		return errors.New("Seed MaxLength must be in (0, 1024]")
	}
	if c.Seed.Memory < 8192 {
		return errors.New("Seed Memory must be >= 8192 KB")
	}
	if c.Seed.Time < 1 {
		return errors.New("Seed Time must be >= 1")
	}
	if c.Seed.Parallelism < 1 {
		return errors.New("Seed Parallelism must be >= 1")
	}
	if c.Seed.KeyLength < 16 || c.Seed.KeyLength > 64 {
		return errors.New("Seed KeyLength must be between 16 and 64")
	}

	// Registry
	if strings.TrimSpace(c.Registry.RedisPrefix) == "" {
		return errors.New("Registry RedisPrefix must not be empty")
	}
	if c.Registry.MaxUsernameLength <= 0 || c.Registry.MaxUsernameLength > 255 {
		return errors.New("Registry MaxUsernameLength must be in (0, 255]")
	}

	// Security
	if c.Security.MaxAuthAttempts < 0 {
		return errors.New("Security MaxAuthAttempts must be >= 0")
	}
	if c.Security.MaxAuthAttempts > 0 && c.Security.AuthCooldown <= 0 {
		return errors.New("Security AuthCooldown must be > 0 when MaxAuthAttempts is set")
	}

	// Assertion
	if c.Assertion.Enabled {
		if c.Assertion.TTL <= 0 || c.Assertion.TTL > time.Hour {
			return errors.New("Assertion TTL must be in (0, 1h]")
		}
		switch c.Assertion.SigningMethod {
		case "ed25519":
			if len(c.Assertion.PrivateKey) == 0 {
				return errors.New("ed25519 requires Assertion PrivateKey")
			}
		case "hs256":
			if len(c.Assertion.PrivateKey) < 32 {
				return errors.New("hs256 requires Assertion PrivateKey of at least 32 bytes")
			}
		default:
			return errors.New("unsupported Assertion signing method")
		}
		if c.Assertion.Leeway < 0 || c.Assertion.Leeway > 2*time.Minute {
			return errors.New("Assertion Leeway must be between 0 and 2m")
		}
		if c.Assertion.Audience != "" && strings.TrimSpace(c.Assertion.Audience) == "" {
			return errors.New("Assertion Audience must not be blank")
		}
	}

	// Events
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events BufferSize must be > 0 when events are enabled")
	}
	if c.Events.SinkTimeout < 0 {
		return errors.New("Events SinkTimeout must be >= 0")
	}

	return nil
}
