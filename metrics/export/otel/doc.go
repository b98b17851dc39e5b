// Package otel binds otpAuth counters and the authenticate latency histogram
// to OpenTelemetry observable instruments.
//
// [NewExporter] registers an Int64ObservableCounter per counter and an
// Int64ObservableGauge per histogram bucket. A single callback reads
// [otpAuth.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
