// Package token issues and validates the signed claims bundle presented as a
// bearer token on every authenticated request.
//
// Tokens are stateless: once issued they stay valid until they expire, even if
// the user's roles or password change in the meantime.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 3 * time.Hour

// MinKeyLength is the minimum signing key size in bytes for HS256.
const MinKeyLength = 32

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrKeyTooShort  = fmt.Errorf("signing key must be at least %d bytes", MinKeyLength)
)

// Config holds the values read from process configuration.
type Config struct {
	Key      string
	Issuer   string
	Audience string
	TTL      time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Claims is the payload of an issued token.
type Claims struct {
	Name   string   `json:"name"`
	UserID string   `json:"nameid"`
	Roles  []string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID parses the numeric user id carried by the token.
func (c *Claims) SubjectID() (uint, error) {
	id, err := strconv.ParseUint(c.UserID, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject id %q", ErrInvalidToken, c.UserID)
	}
	return uint(id), nil
}

// HasAnyRole reports whether the claims carry at least one of roles.
func (c *Claims) HasAnyRole(roles ...string) bool {
	for _, have := range c.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Manager signs and validates tokens with a symmetric key.
type Manager struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// NewManager validates cfg and returns a Manager. The signing key must be
// at least 32 bytes.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Key) < MinKeyLength {
		return nil, ErrKeyTooShort
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		key:      []byte(cfg.Key),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
		now:      now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// Issue signs a new token for the given identity and returns it with its expiry.
func (m *Manager) Issue(userID uint, username string, roles []string) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := Claims{
		Name:   username,
		UserID: strconv.FormatUint(uint64(userID), 10),
		Roles:  append([]string(nil), roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, algorithm, issuer, audience and expiry.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.SubjectID(); err != nil {
		return nil, err
	}
	return claims, nil
}
