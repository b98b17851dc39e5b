package otpAuth

import (
	"testing"
	"time"
)

func mustOTPManager(t *testing.T, cfg OTPConfig) *otpManager {
	t.Helper()
	m, err := newOTPManager(cfg)
	if err != nil {
		t.Fatalf("newOTPManager: %v", err)
	}
	return m
}

func TestHOTPRFC4226Vectors(t *testing.T) {
	m := mustOTPManager(t, OTPConfig{Policy: PolicyCounter, Digits: 6, Algorithm: "SHA1"})
	key := []byte("12345678901234567890")
	want := []uint32{755224, 287082, 359152, 969429, 338314, 254676, 287922, 162583, 399871, 520489}
	for counter, code := range want {
		if got := m.Derive(key, int64(counter)); got != code {
			t.Fatalf("counter %d: got %06d want %06d", counter, got, code)
		}
	}
}

func TestTimePolicyRFC6238Vectors(t *testing.T) {
	cases := []struct {
		algorithm string
		key       string
		codes     map[int64]uint32
	}{
		{
			algorithm: "SHA1",
			key:       "12345678901234567890",
			codes: map[int64]uint32{
				59: 94287082, 1111111109: 7081804, 1111111111: 14050471,
				1234567890: 89005924, 2000000000: 69279037, 20000000000: 65353130,
			},
		},
		{
			algorithm: "SHA256",
			key:       "12345678901234567890123456789012",
			codes: map[int64]uint32{
				59: 46119246, 1111111109: 68084774, 1111111111: 67062674,
				1234567890: 91819424, 2000000000: 90698825, 20000000000: 77737706,
			},
		},
		{
			algorithm: "SHA512",
			key:       "1234567890123456789012345678901234567890123456789012345678901234",
			codes: map[int64]uint32{
				59: 90693936, 1111111109: 25091201, 1111111111: 99943326,
				1234567890: 93441116, 2000000000: 38618901, 20000000000: 47863826,
			},
		},
	}

	for _, tc := range cases {
		m := mustOTPManager(t, OTPConfig{Policy: PolicyTime, Digits: 8, Algorithm: tc.algorithm, Period: 30 * time.Second})
		for ts, code := range tc.codes {
			now := time.Unix(ts, 0)
			if got := m.Derive([]byte(tc.key), m.Window(now, -1)); got != code {
				t.Fatalf("%s vector failed at t=%d: got %08d want %08d", tc.algorithm, ts, got, code)
			}
			if out := m.Verify([]byte(tc.key), code, now, -1); !out.fresh {
				t.Fatalf("%s vector rejected at t=%d", tc.algorithm, ts)
			}
		}
	}
}

func TestVerifySkewAcceptsAdjacentWindow(t *testing.T) {
	m := mustOTPManager(t, OTPConfig{Policy: PolicyTime, Digits: 6, Algorithm: "SHA1", Period: 30 * time.Second, Skew: 1})
	key := []byte("12345678901234567890")
	now := time.Unix(1234567890, 0)
	prev := now.Unix()/30 - 1

	out := m.Verify(key, m.Derive(key, prev), now, -1)
	if !out.fresh || out.window != prev {
		t.Fatalf("expected previous window accepted, got %+v", out)
	}

	out = m.Verify(key, m.Derive(key, prev), now, prev)
	if out.fresh || !out.stale {
		t.Fatalf("expected consumed window to be stale, got %+v", out)
	}
}

func TestVerifyRejectsOutOfRangeCode(t *testing.T) {
	m := mustOTPManager(t, OTPConfig{Policy: PolicyTime, Digits: 6, Algorithm: "SHA256", Period: 30 * time.Second})
	if out := m.Verify([]byte("k"), 1_000_000, time.Now(), -1); out.fresh || out.stale {
		t.Fatalf("seven-digit code must not match: %+v", out)
	}
}

func TestCounterPolicyWindowFollowsConsumption(t *testing.T) {
	m := mustOTPManager(t, OTPConfig{Policy: PolicyCounter, Digits: 6, Algorithm: "SHA256"})
	now := time.Unix(1700000000, 0)
	if w := m.Window(now, -1); w != 0 {
		t.Fatalf("first counter window = %d, want 0", w)
	}
	if w := m.Window(now.Add(time.Hour), 4); w != 5 {
		t.Fatalf("counter window = %d, want 5", w)
	}
	if got := m.candidates(now, 4); len(got) != 1 || got[0] != 5 {
		t.Fatalf("counter candidates = %v", got)
	}
}

func TestCandidatesSkipNegativeWindows(t *testing.T) {
	m := mustOTPManager(t, OTPConfig{Policy: PolicyTime, Digits: 6, Algorithm: "SHA256", Period: 30 * time.Second, Skew: 2})
	got := m.candidates(time.Unix(10, 0), -1)
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("unexpected candidates %v", got)
	}
}

func TestNewOTPManagerRejectsBadConfig(t *testing.T) {
	if _, err := newOTPManager(OTPConfig{Digits: 7, Algorithm: "SHA1"}); err == nil {
		t.Fatal("expected digits error")
	}
	if _, err := newOTPManager(OTPConfig{Digits: 6, Algorithm: "MD5"}); err == nil {
		t.Fatal("expected algorithm error")
	}
}
