// Package assertion issues and verifies short-lived signed tokens that attest a
// public key passed OTP authentication.
//
// Tokens are JWTs signed with Ed25519 (default) or HS256. The subject is the
// authenticated public key, "usr" carries the username and "win" the accepted
// moving-factor index. Every token has a random jti.
package assertion
