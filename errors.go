package otpAuth

import "errors"

var (
	// ErrDuplicateUsername is returned by RegisterUser when the username is taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicatePublicKey is returned by RegisterUser when the public key is taken.
	ErrDuplicatePublicKey = errors.New("public key already registered")
	// ErrUnknownUser is returned when no identity has the username.
	ErrUnknownUser = errors.New("unknown user")
	// ErrUnknownPublicKey is returned when no identity has the public key.
	ErrUnknownPublicKey = errors.New("unknown public key")
	// ErrInvalidOTP covers wrong, expired and replayed codes alike.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrRegistrationInvalid is returned for malformed registration input.
	ErrRegistrationInvalid = errors.New("invalid registration request")
	// ErrAuthRateLimited is returned once a public key spent its failure budget.
	ErrAuthRateLimited = errors.New("authentication attempts rate limited")
	// ErrRegistryUnavailable wraps identity store failures.
	ErrRegistryUnavailable = errors.New("identity registry unavailable")
	// ErrEngineNotReady is returned when a method is called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrAssertionInvalid is returned by VerifyAssertion.
	ErrAssertionInvalid = errors.New("invalid authentication assertion")
)
