package otpAuth

import (
	"errors"
	"log/slog"

	"github.com/MrEthical07/otpAuth/assertion"
	internalaudit "github.com/MrEthical07/otpAuth/internal/audit"
	"github.com/MrEthical07/otpAuth/internal/limiters"
	internalmetrics "github.com/MrEthical07/otpAuth/internal/metrics"
	"github.com/MrEthical07/otpAuth/kdf"
	"github.com/MrEthical07/otpAuth/registry"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. It is single use: a second Build fails.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	store     registry.Store
	eventSink EventSink
	logger    *slog.Logger
	clock     Clock

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis backs the identity store and the attempt limiter with Redis.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore overrides the identity store. It takes precedence over WithRedis
// for identities; the limiter still uses Redis when a client is set.
func (b *Builder) WithStore(store registry.Store) *Builder {
	b.store = store
	return b
}

func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires every component.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	// -------- IDENTITY STORE --------
	store := b.store
	if store == nil {
		if b.redis != nil {
			store = registry.NewRedisStore(b.redis, cfg.Registry.RedisPrefix)
		} else {
			store = registry.NewMemoryStore()
		}
	}

	// -------- OTP / SEED KDF --------
	otp, err := newOTPManager(cfg.OTP)
	if err != nil {
		return nil, err
	}

	seedKDF, err := kdf.NewArgon2(kdf.Config{
		Memory:      cfg.Seed.Memory,
		Time:        cfg.Seed.Time,
		Parallelism: cfg.Seed.Parallelism,
		KeyLength:   cfg.Seed.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cloneConfig(cfg),
		store:   store,
		otp:     otp,
		seedKDF: seedKDF,
		clock:   clock,
		logger:  logger,
	}

	// -------- ATTEMPT LIMITER --------
	if cfg.Security.MaxAuthAttempts > 0 {
		limiterCfg := limiters.Config{
			MaxAttempts: cfg.Security.MaxAuthAttempts,
			Cooldown:    cfg.Security.AuthCooldown,
		}
		if b.redis != nil {
			engine.limiter = limiters.NewRedisAttemptLimiter(b.redis, limiterCfg)
		} else {
			engine.limiter = limiters.NewLocalAttemptLimiter(limiterCfg, clock.Now)
		}
	}

	// -------- ASSERTIONS --------
	if cfg.Assertion.Enabled {
		am, err := assertion.NewManager(assertion.Config{
			TTL:           cfg.Assertion.TTL,
			SigningMethod: assertion.SigningMethod(cfg.Assertion.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Assertion.PrivateKey),
			PublicKey:     cloneBytes(cfg.Assertion.PublicKey),
			Issuer:        cfg.Assertion.Issuer,
			Audience:      cfg.Assertion.Audience,
			Leeway:        cfg.Assertion.Leeway,
			KeyID:         cfg.Assertion.KeyID,
			Now:           clock.Now,
		})
		if err != nil {
			return nil, err
		}
		engine.assertions = am
	}

	engine.events = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:     cfg.Events.Enabled,
		BufferSize:  cfg.Events.BufferSize,
		DropIfFull:  cfg.Events.DropIfFull,
		SinkTimeout: cfg.Events.SinkTimeout,
	}, b.eventSink)
	engine.metrics = internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Metrics.Enabled,
		EnableLatencyHistograms: cfg.Metrics.EnableLatencyHistograms,
	})

	b.built = true

	return engine, nil
}
