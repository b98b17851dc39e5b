package registry

import (
	"encoding/hex"
	"errors"
	"strings"
)

// PublicKeySize is the fixed width of an identity key in bytes.
const PublicKeySize = 20

// ErrInvalidPublicKey is returned when a key cannot be parsed.
var ErrInvalidPublicKey = errors.New("invalid public key")

// PublicKey is a fixed-width, address-like identity key.
type PublicKey [PublicKeySize]byte

// ParsePublicKey parses a hex key with or without a 0x prefix. Hex digits are
// accepted in either case.
func ParsePublicKey(s string) (PublicKey, error) {
	var k PublicKey

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != PublicKeySize*2 {
		return k, ErrInvalidPublicKey
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return k, ErrInvalidPublicKey
	}
	return k, nil
}

// MustParsePublicKey is like ParsePublicKey but panics on error. Intended for
// tests and constants.
func MustParsePublicKey(s string) PublicKey {
	k, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// PublicKeyFromBytes copies raw key bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var k PublicKey
	if len(b) != PublicKeySize {
		return k, ErrInvalidPublicKey
	}
	copy(k[:], b)
	return k, nil
}

func (k PublicKey) Bytes() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, k[:])
	return out
}

// Hex returns the lowercase hex form without prefix. Used for storage keys.
func (k PublicKey) Hex() string {
	return hex.EncodeToString(k[:])
}

func (k PublicKey) String() string {
	return "0x" + k.Hex()
}

func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

func (k PublicKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
