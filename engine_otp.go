package otpAuth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/MrEthical07/otpAuth/registry"
)

// GenerateOTP returns the code currently valid for username. Repeated calls
// inside one window return the same value and never touch consumption state.
func (e *Engine) GenerateOTP(ctx context.Context, username string) (uint32, error) {
	if err := e.ready(); err != nil {
		return 0, err
	}

	id, err := e.store.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			e.metricInc(MetricOTPUnknownUser)
			return 0, ErrUnknownUser
		}
		return 0, e.storeFailure(ctx, "generate otp", err, slog.String("username", username))
	}

	window := e.otp.Window(e.clock.Now(), id.LastConsumed)
	code := e.otp.Derive(id.SeedKey, window)

	e.metricInc(MetricOTPGenerated)
	e.emitEvent(ctx, EventOTPGenerated, true, id.Username, id.PublicKey, nil, func() map[string]string {
		return map[string]string{"window": strconv.FormatInt(window, 10)}
	})

	return code, nil
}

// FormatOTP renders code zero-padded to the configured digit count.
func (e *Engine) FormatOTP(code uint32) string {
	digits := 6
	if e != nil && e.config.OTP.Digits > 0 {
		digits = e.config.OTP.Digits
	}
	s := strconv.FormatUint(uint64(code), 10)
	for len(s) < digits {
		s = "0" + s
	}
	return s
}
