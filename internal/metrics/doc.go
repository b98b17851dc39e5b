// Package metrics provides lock-free counters and a latency histogram for
// otpAuth observability.
//
// # Design
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically via [sync/atomic.AddUint64]. The histogram uses 8 fixed buckets
// (≤5ms … +Inf) and tracks a running sum in nanoseconds. The write path does
// not allocate.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation. Export (Prometheus,
// OTel) lives in metrics/export/ and reads Snapshot values.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import otpAuth or any sibling package.
//   - Expose global metric registries.
package metrics
