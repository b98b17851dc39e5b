package otpAuth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// EventErrorCode is the stable value placed in [Event.Error].
type EventErrorCode string

const (
	eventErrDuplicateUsername  EventErrorCode = "duplicate_username"
	eventErrDuplicatePublicKey EventErrorCode = "duplicate_public_key"
	eventErrInvalidRequest     EventErrorCode = "invalid_request"
	eventErrUnknownUser        EventErrorCode = "unknown_user"
	eventErrUnknownPublicKey   EventErrorCode = "unknown_public_key"
	eventErrInvalidOTP         EventErrorCode = "invalid_otp"
	eventErrRateLimited        EventErrorCode = "rate_limited"
	eventErrUnavailable        EventErrorCode = "backend_unavailable"
	eventErrInternal           EventErrorCode = "internal_error"
)

func (e *Engine) emitEvent(
	ctx context.Context,
	eventType string,
	success bool,
	username string,
	key PublicKey,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.events == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := Event{
		ID:        uuid.NewString(),
		Timestamp: e.clock.Now().UTC(),
		Type:      eventType,
		Username:  username,
		Success:   success,
		Metadata:  metadata,
	}
	if !key.IsZero() {
		event.PublicKey = key.String()
	}
	if code := eventErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.events.Emit(ctx, event)
}

func eventErrorCode(err error) EventErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrDuplicateUsername):
		return eventErrDuplicateUsername
	case errors.Is(err, ErrDuplicatePublicKey):
		return eventErrDuplicatePublicKey
	case errors.Is(err, ErrRegistrationInvalid):
		return eventErrInvalidRequest
	case errors.Is(err, ErrUnknownUser):
		return eventErrUnknownUser
	case errors.Is(err, ErrUnknownPublicKey):
		return eventErrUnknownPublicKey
	case errors.Is(err, ErrInvalidOTP):
		return eventErrInvalidOTP
	case errors.Is(err, ErrAuthRateLimited):
		return eventErrRateLimited
	case errors.Is(err, ErrRegistryUnavailable):
		return eventErrUnavailable
	default:
		return eventErrInternal
	}
}
