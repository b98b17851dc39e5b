package otpAuth

import (
	"context"
	"errors"
	"fmt"
)

// VerifyAssertion validates a token returned in [AuthResult.Assertion].
func (e *Engine) VerifyAssertion(ctx context.Context, token string) (*AssertionClaims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.assertions == nil {
		return nil, fmt.Errorf("%w: assertions disabled", ErrAssertionInvalid)
	}

	claims, err := e.assertions.Parse(token)
	if err != nil {
		e.metricInc(MetricAssertionRejected)
		e.logger.DebugContext(ctx, "otpauth: assertion rejected", "error", err)
		return nil, errors.Join(ErrAssertionInvalid, err)
	}

	key, err := ParsePublicKey(claims.Subject)
	if err != nil {
		e.metricInc(MetricAssertionRejected)
		return nil, errors.Join(ErrAssertionInvalid, err)
	}

	out := &AssertionClaims{
		PublicKey: key,
		Username:  claims.Username,
		Window:    claims.Window,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
