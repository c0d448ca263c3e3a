package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired indicates a structurally valid token whose expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalidSignature indicates the signature does not match the secret.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrMalformed indicates the token could not be parsed at all.
	ErrMalformed = errors.New("malformed token")
)

// Type distinguishes the two lifetimes a credential can be issued with.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Identity is the claim set an issued credential carries.
type Identity struct {
	UserID   string
	Username string
	Role     string
	Kind     string
}

// Claims embeds the registered JWT claims plus the application identity.
type Claims struct {
	jwt.RegisteredClaims
	Username  string `json:"username,omitempty"`
	Role      string `json:"role,omitempty"`
	Kind      string `json:"type,omitempty"`
	TokenType Type   `json:"token_type"`
}

// Service issues and verifies HS256 signed credentials. It is a pure function
// of the secret and the clock; the clock is injectable for tests.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AccessTTL reports the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

// Issue signs a credential for the identity with the lifetime implied by typ.
func (s *Service) Issue(id Identity, typ Type) (string, error) {
	ttl := s.accessTTL
	if typ == TypeRefresh {
		ttl = s.refreshTTL
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Username:  id.Username,
		Role:      id.Role,
		Kind:      id.Kind,
		TokenType: typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssuePair issues an access and a refresh credential carrying the same identity.
func (s *Service) IssuePair(id Identity) (access, refresh string, err error) {
	if access, err = s.Issue(id, TypeAccess); err != nil {
		return "", "", err
	}
	if refresh, err = s.Issue(id, TypeRefresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify checks signature integrity and expiry and returns the decoded claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
