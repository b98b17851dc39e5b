package otpAuth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/MrEthical07/otpAuth/internal/limiters"
	"github.com/MrEthical07/otpAuth/registry"
)

// Authenticate reports whether otp is the current, unused code for
// publicKey. Wrong, expired and replayed codes all fail with ErrInvalidOTP.
func (e *Engine) Authenticate(ctx context.Context, publicKey PublicKey, otp uint32) (bool, error) {
	if _, err := e.AuthenticateWithResult(ctx, publicKey, otp); err != nil {
		return false, err
	}
	return true, nil
}

// AuthenticateWithResult is Authenticate returning the accepted window and,
// when enabled, a signed assertion. On success the window is consumed
// atomically; a concurrent call with the same code fails.
func (e *Engine) AuthenticateWithResult(ctx context.Context, publicKey PublicKey, otp uint32) (*AuthResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}()
	}

	limiterKey := publicKey.Hex()
	if e.limiter != nil {
		if err := e.limiter.Check(ctx, limiterKey); err != nil {
			return nil, e.rejectAuthentication(ctx, publicKey, "", e.limiterFailure(ctx, publicKey, err))
		}
	}

	id, err := e.store.ByPublicKey(ctx, publicKey)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			e.metricInc(MetricAuthUnknownPublicKey)
			return nil, e.rejectAuthentication(ctx, publicKey, "", ErrUnknownPublicKey)
		}
		return nil, e.rejectAuthentication(ctx, publicKey, "",
			e.storeFailure(ctx, "authenticate", err, slog.String("public_key", publicKey.String())))
	}

	outcome := e.otp.Verify(id.SeedKey, otp, e.clock.Now(), id.LastConsumed)
	if !outcome.fresh {
		if outcome.stale {
			e.metricInc(MetricAuthReplay)
		} else {
			e.metricInc(MetricAuthInvalid)
		}
		e.recordFailure(ctx, publicKey, limiterKey)
		return nil, e.rejectAuthentication(ctx, publicKey, id.Username, ErrInvalidOTP)
	}

	result := &AuthResult{
		PublicKey: publicKey,
		Username:  id.Username,
		Window:    outcome.window,
	}
	if e.assertions != nil {
		token, err := e.assertions.Issue(publicKey.String(), id.Username, outcome.window)
		if err != nil {
			e.logger.ErrorContext(ctx, "otpauth: assertion signing failed", "error", err)
			return nil, e.rejectAuthentication(ctx, publicKey, id.Username, err)
		}
		result.Assertion = token
	}

	if err := e.store.Consume(ctx, publicKey, outcome.window); err != nil {
		if errors.Is(err, registry.ErrAlreadyConsumed) {
			e.metricInc(MetricAuthReplay)
			e.recordFailure(ctx, publicKey, limiterKey)
			return nil, e.rejectAuthentication(ctx, publicKey, id.Username, ErrInvalidOTP)
		}
		return nil, e.rejectAuthentication(ctx, publicKey, id.Username,
			e.storeFailure(ctx, "consume window", err, slog.String("public_key", publicKey.String())))
	}

	if e.limiter != nil {
		if err := e.limiter.Reset(ctx, limiterKey); err != nil {
			e.logger.WarnContext(ctx, "otpauth: attempt limiter reset failed", "public_key", publicKey.String(), "error", err)
		}
	}
	if result.Assertion != "" {
		e.metricInc(MetricAssertionIssued)
	}
	e.metricInc(MetricAuthSuccess)
	e.emitEvent(ctx, EventOTPAuthenticated, true, id.Username, publicKey, nil, func() map[string]string {
		return map[string]string{"window": strconv.FormatInt(outcome.window, 10)}
	})

	return result, nil
}

func (e *Engine) rejectAuthentication(ctx context.Context, publicKey PublicKey, username string, err error) error {
	e.emitEvent(ctx, EventAuthenticationRejected, false, username, publicKey, err, nil)
	return err
}

func (e *Engine) recordFailure(ctx context.Context, publicKey PublicKey, limiterKey string) {
	if e.limiter == nil {
		return
	}
	err := e.limiter.RecordFailure(ctx, limiterKey)
	if err != nil && !errors.Is(err, limiters.ErrRateLimited) {
		e.logger.WarnContext(ctx, "otpauth: attempt limiter update failed", "public_key", publicKey.String(), "error", err)
	}
}

func (e *Engine) limiterFailure(ctx context.Context, publicKey PublicKey, err error) error {
	if errors.Is(err, limiters.ErrRateLimited) {
		e.metricInc(MetricAuthRateLimited)
		return ErrAuthRateLimited
	}
	return e.storeFailure(ctx, "check attempt limiter", err, slog.String("public_key", publicKey.String()))
}
