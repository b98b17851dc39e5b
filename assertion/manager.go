package assertion

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the JWT algorithm.
type SigningMethod string

const (
	MethodEd25519 SigningMethod = "ed25519"
	MethodHS256   SigningMethod = "hs256"
)

const maxTTL = time.Hour

// Config controls issuance and verification.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
	KeyID         string
	// Now overrides the clock used for iat/exp and validation.
	Now func() time.Time
}

// Claims is the payload of an authentication assertion.
type Claims struct {
	Username string `json:"usr"`
	Window   int64  `json:"win"`
	jwt.RegisteredClaims
}

// Manager signs and parses assertions.
type Manager struct {
	config Config
}

// NewManager validates cfg. Ed25519 needs a private key to issue and a public
// key (or the private key) to verify; HS256 uses PrivateKey for both.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 || cfg.TTL > maxTTL {
		return nil, errors.New("assertion TTL must be in (0, 1h]")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) < 32 {
			return nil, errors.New("hs256 requires a key of at least 32 bytes")
		}
	case MethodEd25519, "":
		cfg.SigningMethod = MethodEd25519
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("ed25519 requires private key")
		}
		priv, err := parseEdPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		if len(cfg.PublicKey) == 0 {
			cfg.PublicKey = priv.Public().(ed25519.PublicKey)
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// Issue signs an assertion for subject (the hex public key).
func (m *Manager) Issue(subject, username string, window int64) (string, error) {
	now := m.config.Now()
	claims := Claims{
		Username: username,
		Window:   window,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}

	token := jwt.NewWithClaims(m.method(), claims)
	if m.config.KeyID != "" {
		token.Header["kid"] = m.config.KeyID
	}

	key, err := m.signKey()
	if err != nil {
		return "", err
	}
	return token.SignedString(key)
}

// Parse verifies signature, expiry, issuer and audience.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithTimeFunc(m.config.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		if m.config.KeyID != "" {
			kid, _ := t.Header["kid"].(string)
			if kid != m.config.KeyID {
				return nil, errors.New("unknown kid")
			}
		}
		return m.verifyKey()
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (m *Manager) method() jwt.SigningMethod {
	if m.config.SigningMethod == MethodHS256 {
		return jwt.SigningMethodHS256
	}
	return jwt.SigningMethodEdDSA
}

func (m *Manager) signKey() (interface{}, error) {
	if m.config.SigningMethod == MethodHS256 {
		return m.config.PrivateKey, nil
	}
	return parseEdPrivateKey(m.config.PrivateKey)
}

func (m *Manager) verifyKey() (interface{}, error) {
	if m.config.SigningMethod == MethodHS256 {
		return m.config.PrivateKey, nil
	}
	return parseEdPublicKey(m.config.PublicKey)
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
