package otpAuth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MrEthical07/otpAuth/assertion"
	internalaudit "github.com/MrEthical07/otpAuth/internal/audit"
	"github.com/MrEthical07/otpAuth/internal/limiters"
	internalmetrics "github.com/MrEthical07/otpAuth/internal/metrics"
	"github.com/MrEthical07/otpAuth/kdf"
	"github.com/MrEthical07/otpAuth/registry"
)

// Engine registers identities, generates codes and authenticates public
// keys. Build one with [New]; all methods are safe for concurrent use.
type Engine struct {
	config     Config
	store      registry.Store
	otp        *otpManager
	seedKDF    *kdf.Argon2
	limiter    limiters.AttemptLimiter
	assertions *assertion.Manager
	events     *internalaudit.Dispatcher
	metrics    *internalmetrics.Metrics
	clock      Clock
	logger     *slog.Logger
}

// Close drains pending events. The store is owned by the caller and is left
// open.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.events != nil {
		e.events.Close()
	}
}

// EventsDropped reports events lost to a full dispatcher buffer.
func (e *Engine) EventsDropped() uint64 {
	if e == nil || e.events == nil {
		return 0
	}
	return e.events.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return internalmetrics.New(internalmetrics.Config{}).Snapshot()
	}
	return e.metrics.Snapshot()
}

// IdentityCount returns the number of registered identities.
func (e *Engine) IdentityCount(ctx context.Context) (int64, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}
	n, err := e.store.Count(ctx)
	if err != nil {
		return 0, e.storeFailure(ctx, "count identities", err)
	}
	return n, nil
}

// LookupUser returns the public view of the identity registered under
// username.
func (e *Engine) LookupUser(ctx context.Context, username string) (IdentityInfo, error) {
	if err := e.ready(); err != nil {
		return IdentityInfo{}, err
	}
	id, err := e.store.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return IdentityInfo{}, ErrUnknownUser
		}
		return IdentityInfo{}, e.storeFailure(ctx, "lookup user", err, slog.String("username", username))
	}
	return identityInfo(id), nil
}

// LookupPublicKey returns the public view of the identity owning key.
func (e *Engine) LookupPublicKey(ctx context.Context, key PublicKey) (IdentityInfo, error) {
	if err := e.ready(); err != nil {
		return IdentityInfo{}, err
	}
	id, err := e.store.ByPublicKey(ctx, key)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return IdentityInfo{}, ErrUnknownPublicKey
		}
		return IdentityInfo{}, e.storeFailure(ctx, "lookup public key", err, slog.String("public_key", key.String()))
	}
	return identityInfo(id), nil
}

func (e *Engine) ready() error {
	if e == nil || e.store == nil || e.otp == nil {
		return ErrEngineNotReady
	}
	return nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// storeFailure logs a backend error and wraps it for the caller.
func (e *Engine) storeFailure(ctx context.Context, op string, err error, attrs ...any) error {
	e.metricInc(MetricStoreError)
	args := append([]any{"op", op, "error", err}, attrs...)
	e.logger.ErrorContext(ctx, "otpauth: registry operation failed", args...)
	return errors.Join(ErrRegistryUnavailable, err)
}
