package otpAuth

import "time"

// Clock supplies the current time to the Engine. Tests inject a fixed clock
// to pin OTP windows.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
