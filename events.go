package otpAuth

import (
	"io"
	"log/slog"

	internalaudit "github.com/MrEthical07/otpAuth/internal/audit"
)

// Event types emitted by the Engine.
const (
	EventUserRegistered         = "user_registered"
	EventOTPAuthenticated       = "otp_authenticated"
	EventOTPGenerated           = "otp_generated"
	EventRegistrationRejected   = "registration_rejected"
	EventAuthenticationRejected = "authentication_rejected"
)

// Event is a structured record of a registration or authentication outcome.
// It never carries seeds, seed keys or codes.
type Event = internalaudit.Event

// EventSink receives events from the Engine's dispatcher goroutine.
type EventSink = internalaudit.Sink

// NoOpSink discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [EventSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink writes one JSON object per event to an [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// SlogSink logs events through a [slog.Logger].
type SlogSink = internalaudit.SlogSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}
