// Package registry stores registered identities and their OTP consumption
// markers.
//
// # Stores
//
//   - [MemoryStore] keeps identities in process. Both indexes point at the same
//     entry; registration runs under a registry-wide lock and consumption under a
//     per-identity lock.
//   - [RedisStore] keeps one hash per identity plus a username index key. Lua
//     scripts make registration and consumption atomic on the server.
//
// # Architecture boundaries
//
// This package owns persistence and the two uniqueness indexes. It does NOT
// derive or compare codes; the Engine decides which window to consume and the
// store only enforces that the marker moves strictly forward.
//
// # What this package must NOT do
//
//   - Import otpAuth or any sibling package (no upward imports).
//   - Store the plaintext seed. Only the derived key reaches a [Store].
//   - Allow a consumption marker to move backwards.
package registry
