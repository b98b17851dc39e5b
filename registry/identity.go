package registry

import (
	"context"
	"errors"
	"time"
)

// NoneConsumed is the consumption marker of an identity that has never
// authenticated.
const NoneConsumed int64 = -1

var (
	// ErrUsernameTaken is returned by Register when the username is indexed.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrPublicKeyTaken is returned by Register when the public key is indexed.
	ErrPublicKeyTaken = errors.New("public key already registered")
	// ErrNotFound is returned when no identity matches a lookup.
	ErrNotFound = errors.New("identity not found")
	// ErrAlreadyConsumed is returned by Consume when the index is not newer
	// than the stored marker.
	ErrAlreadyConsumed = errors.New("window already consumed")
	// ErrInvalidIdentity is returned when a record is missing required fields.
	ErrInvalidIdentity = errors.New("invalid identity record")
	// ErrRedisUnavailable wraps Redis transport failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Identity is one registered user.
//
// Username, PublicKey and SeedKey are fixed at registration. LastConsumed is
// the only field a store ever changes afterwards.
type Identity struct {
	ID           string
	Username     string
	PublicKey    PublicKey
	SeedKey      []byte
	LastConsumed int64
	RegisteredAt time.Time
}

// Clone returns a deep copy so callers cannot alias store memory.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.SeedKey = append([]byte(nil), i.SeedKey...)
	return &out
}

func (i *Identity) validate() error {
	if i == nil || i.ID == "" || i.Username == "" || i.PublicKey.IsZero() || len(i.SeedKey) == 0 {
		return ErrInvalidIdentity
	}
	return nil
}

// Store is the persistence contract the Engine depends on. Implementations
// must make Register and Consume atomic with respect to concurrent callers.
type Store interface {
	// Register inserts id under both indexes, or fails with ErrUsernameTaken /
	// ErrPublicKeyTaken without writing anything. The username is checked first.
	Register(ctx context.Context, id *Identity) error
	ByUsername(ctx context.Context, username string) (*Identity, error)
	ByPublicKey(ctx context.Context, key PublicKey) (*Identity, error)
	// Consume advances the marker of key to index when index is strictly
	// greater than the current marker, otherwise returns ErrAlreadyConsumed.
	Consume(ctx context.Context, key PublicKey, index int64) error
	Count(ctx context.Context) (int64, error)
}
