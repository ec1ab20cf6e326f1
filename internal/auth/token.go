// Package auth implements credential verification and JWT issuance for
// the portal trust boundary. The gateway and the backend API share the
// same signing secret, so either side can verify a token locally.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed access-token lifetime. There is no refresh
// flow: clients log in again when the token expires.
const TokenTTL = 15 * time.Minute

var (
	// ErrMissingSecret indicates the signing secret was not configured.
	// This is fatal at construction time, never a per-request error.
	ErrMissingSecret = errors.New("auth: signing secret is not configured")

	// ErrInvalidToken covers every verification failure: bad signature,
	// expired, malformed, wrong algorithm. Callers deliberately cannot
	// distinguish them; the reason is only available for logging.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims are the fields embedded in every access token.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenService signs and verifies access tokens with an injected
// secret. Construct one per process; there is no package-level state,
// so tests can run multiple signers with different secrets side by side.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService for the given signing secret.
// Returns ErrMissingSecret if the secret is empty.
func NewTokenService(secret string) (*TokenService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for the given identity. The role claim is fixed
// at issuance: later role changes to the user do not affect tokens
// already in circulation until they expire.
func (s *TokenService) Issue(userID, role, email, name string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("auth: userID is required")
	}
	now := s.now().UTC()
	claims := Claims{
		Role:  role,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token signature and expiry and returns the decoded
// claims. Every failure mode returns ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
