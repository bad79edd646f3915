package account

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

// ErrInvalidToken indicates an expired, malformed, or foreign-signed token.
var ErrInvalidToken = apperrors.New(apperrors.CodeAccountInvalidToken, "session token is invalid")

const tokenIssuer = "candlewick"

// sessionClaims carries the user role next to the registered JWT claims.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
}

// NewTokenIssuer creates a TokenIssuer with an HMAC key and token lifetime.
func NewTokenIssuer(key []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("token key must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenIssuer{key: key, ttl: ttl}, nil
}

// Issue signs a session token for a user.
func (t *TokenIssuer) Issue(u User, now time.Time) (string, error) {
	claims := sessionClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Session is the verified identity carried by a token.
type Session struct {
	UserID string
	Role   Role
}

// Verify parses a session token and returns the identity it asserts.
// Expired, malformed, or foreign-signed tokens all map to the same invalid
// token error.
func (t *TokenIssuer) Verify(tokenString string) (Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.key, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Session{}, apperrors.Wrap(apperrors.CodeAccountInvalidToken, "session token is invalid", err)
	}
	return Session{UserID: claims.Subject, Role: Role(claims.Role)}, nil
}
