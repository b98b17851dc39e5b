// Package limiters throttles failed OTP authentications per public key.
//
// # Limiters
//
//   - [RedisAttemptLimiter]: fixed window (INCR + EXPIRE on first hit) under
//     the "ota:" key namespace, shared by every process on the same Redis.
//   - [LocalAttemptLimiter]: the same fixed window kept in process memory;
//     a key stays limited until Cooldown has passed since its first failure.
//
// Both satisfy [AttemptLimiter] and are nil-safe: every method on a nil
// receiver returns nil.
//
// # What this package must NOT do
//
//   - Import otpAuth or any sibling internal package.
//   - Decide consequences; the Engine maps [ErrRateLimited] to its own error.
package limiters
