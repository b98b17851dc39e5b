package kdf

import (
	"errors"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minKeyLength   uint32 = 16
	maxKeyLength   uint32 = 64
	minSaltLength         = 16

	// MaxSeedBytes bounds the seed accepted by Derive.
	MaxSeedBytes = 1024
)

// SaltTag prefixes every salt so keys from this package never collide with
// Argon2 output produced elsewhere from the same inputs.
const SaltTag = "otpauth/seed/v1:"

var (
	// ErrEmptySeed is returned when the seed has no bytes.
	ErrEmptySeed = errors.New("seed must not be empty")
	// ErrSeedTooLong is returned when the seed exceeds MaxSeedBytes.
	ErrSeedTooLong = errors.New("seed too long")
	// ErrSaltTooShort is returned when the identity part of the salt is too short.
	ErrSaltTooShort = errors.New("salt too short")
)

// Config holds Argon2id cost parameters.
type Config struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

// Argon2 derives seed keys with fixed parameters.
type Argon2 struct {
	config Config
}

// NewArgon2 validates cfg and returns a deriver.
func NewArgon2(cfg Config) (*Argon2, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Argon2{config: cfg}, nil
}

// KeyLength reports the size of keys returned by Derive.
func (a *Argon2) KeyLength() int {
	return int(a.config.KeyLength)
}

// Derive stretches seed with the identity bytes as salt. Seeds are used as raw
// bytes exactly as provided (no Unicode normalization).
func (a *Argon2) Derive(seed string, identity []byte) ([]byte, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	if len(seed) > MaxSeedBytes {
		return nil, ErrSeedTooLong
	}
	if len(identity) < minSaltLength {
		return nil, ErrSaltTooShort
	}

	salt := make([]byte, 0, len(SaltTag)+len(identity))
	salt = append(salt, SaltTag...)
	salt = append(salt, identity...)

	return argon2.IDKey(
		[]byte(seed),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	), nil
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("seed kdf memory must be >= 8192 KB")
	}
	if cfg.Time < minTimeCost {
		return errors.New("seed kdf time must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("seed kdf parallelism must be >= 1")
	}
	if cfg.KeyLength < minKeyLength || cfg.KeyLength > maxKeyLength {
		return errors.New("seed kdf key length must be between 16 and 64")
	}
	return nil
}
