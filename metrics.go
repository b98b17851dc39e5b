package otpAuth

import (
	internalmetrics "github.com/MrEthical07/otpAuth/internal/metrics"
)

// MetricID identifies a counter or histogram in the in-process metrics system.
type MetricID = internalmetrics.MetricID

// MetricsSnapshot is a point-in-time copy returned by [Engine.MetricsSnapshot].
type MetricsSnapshot = internalmetrics.Snapshot

const (
	MetricRegisterSuccess            = internalmetrics.MetricRegisterSuccess
	MetricRegisterDuplicateUsername  = internalmetrics.MetricRegisterDuplicateUsername
	MetricRegisterDuplicatePublicKey = internalmetrics.MetricRegisterDuplicatePublicKey
	MetricRegisterInvalid            = internalmetrics.MetricRegisterInvalid
	MetricOTPGenerated               = internalmetrics.MetricOTPGenerated
	MetricOTPUnknownUser             = internalmetrics.MetricOTPUnknownUser
	MetricAuthSuccess                = internalmetrics.MetricAuthSuccess
	MetricAuthInvalid                = internalmetrics.MetricAuthInvalid
	// MetricAuthReplay counts codes that matched an already consumed window.
	// Callers still see ErrInvalidOTP.
	MetricAuthReplay           = internalmetrics.MetricAuthReplay
	MetricAuthUnknownPublicKey = internalmetrics.MetricAuthUnknownPublicKey
	MetricAuthRateLimited      = internalmetrics.MetricAuthRateLimited
	MetricAssertionIssued      = internalmetrics.MetricAssertionIssued
	MetricAssertionRejected    = internalmetrics.MetricAssertionRejected
	MetricStoreError           = internalmetrics.MetricStoreError
	MetricAuthenticateLatency  = internalmetrics.MetricAuthenticateLatency
)

// MetricsHistogramBuckets is the number of latency buckets in a snapshot.
const MetricsHistogramBuckets = internalmetrics.HistBucketCount
