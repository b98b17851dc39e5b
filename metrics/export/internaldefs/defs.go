package internaldefs

import (
	otpAuth "github.com/MrEthical07/otpAuth"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   otpAuth.MetricID
	Name string
	Help string
}

// HistogramDef names one exported latency histogram.
type HistogramDef struct {
	ID   otpAuth.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: otpAuth.MetricRegisterSuccess, Name: "otpauth_register_success_total", Help: "Successful identity registrations."},
	{ID: otpAuth.MetricRegisterDuplicateUsername, Name: "otpauth_register_duplicate_username_total", Help: "Registrations rejected for a taken username."},
	{ID: otpAuth.MetricRegisterDuplicatePublicKey, Name: "otpauth_register_duplicate_public_key_total", Help: "Registrations rejected for a taken public key."},
	{ID: otpAuth.MetricRegisterInvalid, Name: "otpauth_register_invalid_total", Help: "Registrations rejected for malformed input."},
	{ID: otpAuth.MetricOTPGenerated, Name: "otpauth_otp_generated_total", Help: "Generated one-time codes."},
	{ID: otpAuth.MetricOTPUnknownUser, Name: "otpauth_otp_unknown_user_total", Help: "Code generation requests for unknown usernames."},
	{ID: otpAuth.MetricAuthSuccess, Name: "otpauth_auth_success_total", Help: "Successful authentications."},
	{ID: otpAuth.MetricAuthInvalid, Name: "otpauth_auth_invalid_total", Help: "Authentications with a code matching no candidate window."},
	{ID: otpAuth.MetricAuthReplay, Name: "otpauth_auth_replay_total", Help: "Authentications with a code for an already consumed window."},
	{ID: otpAuth.MetricAuthUnknownPublicKey, Name: "otpauth_auth_unknown_public_key_total", Help: "Authentications for unknown public keys."},
	{ID: otpAuth.MetricAuthRateLimited, Name: "otpauth_auth_rate_limited_total", Help: "Authentications refused by the attempt limiter."},
	{ID: otpAuth.MetricAssertionIssued, Name: "otpauth_assertion_issued_total", Help: "Signed assertions issued."},
	{ID: otpAuth.MetricAssertionRejected, Name: "otpauth_assertion_rejected_total", Help: "Assertions that failed verification."},
	{ID: otpAuth.MetricStoreError, Name: "otpauth_store_error_total", Help: "Identity store or limiter backend failures."},
}

var HistogramDefs = []HistogramDef{
	{ID: otpAuth.MetricAuthenticateLatency, Name: "otpauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds; the last
// snapshot bucket is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [otpAuth.MetricsHistogramBuckets]uint64 {
	var out [otpAuth.MetricsHistogramBuckets]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

func CumulativeBuckets(raw [otpAuth.MetricsHistogramBuckets]uint64) [otpAuth.MetricsHistogramBuckets]uint64 {
	var out [otpAuth.MetricsHistogramBuckets]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
