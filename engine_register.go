package otpAuth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MrEthical07/otpAuth/registry"
	"github.com/google/uuid"
)

// RegisterUser binds username and publicKey to seed. The username is
// checked before the key, so reusing both reports ErrDuplicateUsername.
// The seed itself is never stored; only a key stretched from it is.
func (e *Engine) RegisterUser(ctx context.Context, username string, publicKey PublicKey, seed string) (IdentityInfo, error) {
	if err := e.ready(); err != nil {
		return IdentityInfo{}, err
	}

	if err := e.validateRegistration(username, publicKey, seed); err != nil {
		e.metricInc(MetricRegisterInvalid)
		e.emitEvent(ctx, EventRegistrationRejected, false, username, publicKey, err, nil)
		return IdentityInfo{}, err
	}

	// Cheap lookups first so duplicates never pay for the KDF. The store's
	// atomic Register below remains authoritative.
	if err := e.precheckRegistration(ctx, username, publicKey); err != nil {
		return IdentityInfo{}, e.rejectRegistration(ctx, username, publicKey, err)
	}

	seedKey, err := e.seedKDF.Derive(seed, publicKey.Bytes())
	if err != nil {
		e.metricInc(MetricRegisterInvalid)
		err = errors.Join(ErrRegistrationInvalid, err)
		e.emitEvent(ctx, EventRegistrationRejected, false, username, publicKey, err, nil)
		return IdentityInfo{}, err
	}

	id := &registry.Identity{
		ID:           uuid.NewString(),
		Username:     username,
		PublicKey:    publicKey,
		SeedKey:      seedKey,
		LastConsumed: registry.NoneConsumed,
		RegisteredAt: e.clock.Now().UTC(),
	}
	if err := e.store.Register(ctx, id); err != nil {
		return IdentityInfo{}, e.rejectRegistration(ctx, username, publicKey, err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitEvent(ctx, EventUserRegistered, true, username, publicKey, nil, func() map[string]string {
		return map[string]string{"identity_id": id.ID}
	})

	return identityInfo(id), nil
}

func (e *Engine) validateRegistration(username string, publicKey PublicKey, seed string) error {
	if strings.TrimSpace(username) == "" {
		return errors.Join(ErrRegistrationInvalid, errors.New("username is empty"))
	}
	if len(username) > e.config.Registry.MaxUsernameLength {
		return errors.Join(ErrRegistrationInvalid, errors.New("username too long"))
	}
	if publicKey.IsZero() {
		return errors.Join(ErrRegistrationInvalid, errors.New("public key is zero"))
	}
	if seed == "" {
		return errors.Join(ErrRegistrationInvalid, errors.New("seed is empty"))
	}
	if len(seed) > e.config.Seed.MaxLength {
		return errors.Join(ErrRegistrationInvalid, errors.New("seed too long"))
	}
	return nil
}

func (e *Engine) precheckRegistration(ctx context.Context, username string, publicKey PublicKey) error {
	if _, err := e.store.ByUsername(ctx, username); err == nil {
		return registry.ErrUsernameTaken
	} else if !errors.Is(err, registry.ErrNotFound) {
		return err
	}
	if _, err := e.store.ByPublicKey(ctx, publicKey); err == nil {
		return registry.ErrPublicKeyTaken
	} else if !errors.Is(err, registry.ErrNotFound) {
		return err
	}
	return nil
}

// rejectRegistration maps a store error to the caller-facing error and
// records it.
func (e *Engine) rejectRegistration(ctx context.Context, username string, publicKey PublicKey, err error) error {
	var out error
	switch {
	case errors.Is(err, registry.ErrUsernameTaken):
		e.metricInc(MetricRegisterDuplicateUsername)
		out = ErrDuplicateUsername
	case errors.Is(err, registry.ErrPublicKeyTaken):
		e.metricInc(MetricRegisterDuplicatePublicKey)
		out = ErrDuplicatePublicKey
	default:
		out = e.storeFailure(ctx, "register identity", err,
			slog.String("username", username), slog.String("public_key", publicKey.String()))
	}
	e.emitEvent(ctx, EventRegistrationRejected, false, username, publicKey, out, nil)
	return out
}
