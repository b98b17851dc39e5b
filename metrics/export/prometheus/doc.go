// Package prometheus exposes otpAuth metrics as a Prometheus collector.
//
// [NewExporter] wraps an [otpAuth.Engine] in a [prometheus.Collector] built on
// github.com/prometheus/client_golang. Counter names are prefixed
// otpauth_*_total; the single histogram is otpauth_authenticate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry; callers register the
//     collector or mount [Exporter.Handler].
//   - Mutate engine state.
package prometheus
