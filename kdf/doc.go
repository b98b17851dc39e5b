// Package kdf stretches registration seeds into fixed-length HMAC keys with
// Argon2id.
//
// The salt is a domain tag followed by the identity's public key, so the same
// seed registered under two keys yields unrelated key material and a client
// holding seed and key can reproduce the derivation.
//
// # What this package must NOT do
//
//   - Retain seeds or derived keys beyond the call.
//   - Import otpAuth or registry.
package kdf
