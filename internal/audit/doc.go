// Package audit implements async event dispatching for registrations and
// authentication attempts.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, slog, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full or block-if-full semantics.
//   - [Event]: record with id, timestamp, type, username, public key and metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which
// events to emit; the Engine does.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import otpAuth or any sibling internal package.
//   - Carry seeds or codes in any event field.
package audit
