package otpAuth

import "time"

// SecurityReport summarizes the effective security posture of an Engine.
type SecurityReport struct {
	Policy    MovingFactorPolicy
	Digits    int
	Algorithm string
	Period    time.Duration
	// AcceptedWindows is the number of windows a single code is checked
	// against: 2*Skew+1 under PolicyTime, 1 under PolicyCounter.
	AcceptedWindows int
	SeedKDF         SeedKDFReport

	RateLimitingActive bool
	MaxAuthAttempts    int
	AuthCooldown       time.Duration

	AssertionsEnabled  bool
	AssertionAlgorithm string
	AssertionTTL       time.Duration

	EventsEnabled  bool
	MetricsEnabled bool
}

type SeedKDFReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	accepted := 1
	if e.config.OTP.Policy == PolicyTime {
		accepted = 2*e.config.OTP.Skew + 1
	}

	report := SecurityReport{
		Policy:          e.config.OTP.Policy,
		Digits:          e.config.OTP.Digits,
		Algorithm:       e.config.OTP.Algorithm,
		Period:          e.config.OTP.Period,
		AcceptedWindows: accepted,
		SeedKDF: SeedKDFReport{
			Memory:      e.config.Seed.Memory,
			Time:        e.config.Seed.Time,
			Parallelism: e.config.Seed.Parallelism,
			KeyLength:   e.config.Seed.KeyLength,
		},
		RateLimitingActive: e.limiter != nil,
		EventsEnabled:      e.events != nil,
		MetricsEnabled:     e.config.Metrics.Enabled,
	}
	if report.RateLimitingActive {
		report.MaxAuthAttempts = e.config.Security.MaxAuthAttempts
		report.AuthCooldown = e.config.Security.AuthCooldown
	}
	if e.assertions != nil {
		report.AssertionsEnabled = true
		report.AssertionAlgorithm = e.config.Assertion.SigningMethod
		report.AssertionTTL = e.config.Assertion.TTL
	}
	return report
}
