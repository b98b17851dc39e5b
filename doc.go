// Package otpAuth provides a one-time-password authentication registry.
// Usernames are bound to 20-byte public keys and a secret seed; codes are
// derived from the stretched seed and accepted at most once per window.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// otpAuth is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (IdentityInfo, AuthResult, MetricsSnapshot). Identity storage lives in the registry
// package; seed stretching in kdf; assertion tokens in assertion. Event dispatch, metrics
// and attempt limiting live under internal/ and are never exported directly.
//
// # What this package must NOT do
//
//   - Store, log or emit raw seeds or codes.
//   - Accept a code for a window at or below the last consumed one.
//   - Import any sub-package that re-imports otpAuth (no import cycles).
//
// # Performance contract
//
// GenerateOTP and Authenticate perform one registry read and, on success, one atomic
// compare-and-advance. The Argon2id stretch runs once per identity, at registration.
package otpAuth
