package otpAuth

import (
	"time"

	"github.com/MrEthical07/otpAuth/registry"
)

// PublicKey is the 20-byte identity key a user registers and authenticates
// with.
type PublicKey = registry.PublicKey

// ParsePublicKey accepts 40 hex digits with or without a 0x prefix.
func ParsePublicKey(s string) (PublicKey, error) {
	return registry.ParsePublicKey(s)
}

// IdentityInfo is the public view of a registered identity. It never
// includes seed material.
type IdentityInfo struct {
	ID           string
	Username     string
	PublicKey    PublicKey
	RegisteredAt time.Time
	// LastWindow is the most recently consumed window, or -1.
	LastWindow int64
}

// AuthResult is returned by [Engine.AuthenticateWithResult].
type AuthResult struct {
	PublicKey PublicKey
	Username  string
	Window    int64
	// Assertion is a signed token for the authentication when assertions
	// are enabled, empty otherwise.
	Assertion string
}

// AssertionClaims is the verified content of an assertion token.
type AssertionClaims struct {
	PublicKey PublicKey
	Username  string
	Window    int64
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func identityInfo(id *registry.Identity) IdentityInfo {
	return IdentityInfo{
		ID:           id.ID,
		Username:     id.Username,
		PublicKey:    id.PublicKey,
		RegisteredAt: id.RegisteredAt,
		LastWindow:   id.LastConsumed,
	}
}
