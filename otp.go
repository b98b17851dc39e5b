package otpAuth

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"hash"
	"strings"
	"time"
)

// otpManager turns a seed key and a window index into a numeric code.
type otpManager struct {
	config OTPConfig
	hash   func() hash.Hash
	mod    uint32
	period int64
}

func newOTPManager(cfg OTPConfig) (*otpManager, error) {
	hf, err := hmacFunc(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.Digits != 6 && cfg.Digits != 8 {
		return nil, errors.New("otp digits must be 6 or 8")
	}
	mod := uint32(1)
	for i := 0; i < cfg.Digits; i++ {
		mod *= 10
	}
	period := int64(cfg.Period / time.Second)
	if period <= 0 {
		period = 30
	}
	return &otpManager{config: cfg, hash: hf, mod: mod, period: period}, nil
}

// Window returns the index a freshly generated code is bound to.
func (m *otpManager) Window(now time.Time, lastConsumed int64) int64 {
	if m.config.Policy == PolicyCounter {
		return lastConsumed + 1
	}
	return now.Unix() / m.period
}

// candidates lists the windows Verify will accept, oldest first.
func (m *otpManager) candidates(now time.Time, lastConsumed int64) []int64 {
	base := m.Window(now, lastConsumed)
	if m.config.Policy == PolicyCounter || m.config.Skew == 0 {
		return []int64{base}
	}
	out := make([]int64, 0, 2*m.config.Skew+1)
	for step := -m.config.Skew; step <= m.config.Skew; step++ {
		w := base + int64(step)
		if w < 0 {
			continue
		}
		out = append(out, w)
	}
	return out
}

func (m *otpManager) Derive(key []byte, window int64) uint32 {
	return hotpValue(m.hash, key, window) % m.mod
}

// verifyOutcome separates a fresh match from a match on an already consumed
// window. Callers must not expose the difference.
type verifyOutcome struct {
	window int64
	fresh  bool
	stale  bool
}

// Verify compares code against every candidate window in constant time per
// window and keeps the newest fresh match.
func (m *otpManager) Verify(key []byte, code uint32, now time.Time, lastConsumed int64) verifyOutcome {
	var out verifyOutcome
	if code >= m.mod {
		return out
	}
	for _, w := range m.candidates(now, lastConsumed) {
		expected := m.Derive(key, w)
		if subtle.ConstantTimeEq(int32(expected), int32(code)) != 1 {
			continue
		}
		if w <= lastConsumed {
			out.stale = true
			continue
		}
		out.window = w
		out.fresh = true
	}
	return out
}

func hotpValue(hf func() hash.Hash, key []byte, counter int64) uint32 {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(hf, key)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	return (uint32(sum[offset])&0x7f)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])
}

func hmacFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case "SHA1":
		return sha1.New, nil
	case "", "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, errors.New("unsupported otp algorithm")
	}
}
