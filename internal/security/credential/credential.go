package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTTL is the credential lifetime.
	DefaultTTL = 7 * 24 * time.Hour

	// minSecretBytes is the minimum HS256 secret length we accept.
	minSecretBytes = 32
)

// Claims is the verified identity envelope carried by a credential.
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Service issues and verifies bearer credentials.
// It holds only the signing secret and TTL; issuance and verification are
// pure functions of (secret, inputs, clock).
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService constructs a credential Service.
// TTL <= 0 falls back to DefaultTTL.
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) < minSecretBytes {
		return nil, ErrSecretTooShort
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl}, nil
}

// Issue produces a signed credential for the given user, expiring TTL from now.
func (s *Service) Issue(userID, email string, now time.Time) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	exp := now.Add(s.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UID:   userID,
		Email: email,
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a credential, returning its claims.
// Any failure (malformed token, wrong signature, expired) maps to
// ErrInvalidCredential; there is no partial-validity state.
func (s *Service) Verify(token string, now time.Time) (Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var tc tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &tc,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidCredential
	}
	if tc.UID == "" {
		return Claims{}, ErrInvalidCredential
	}

	out := Claims{
		UserID: tc.UID,
		Email:  tc.Email,
	}
	if tc.IssuedAt != nil {
		out.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		out.ExpiresAt = tc.ExpiresAt.Time
	}
	return out, nil
}
