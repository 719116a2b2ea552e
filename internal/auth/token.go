package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ministrydocs/internal/model"
)

// Claims are the identity facts embedded in a signed credential. Every
// request is authorized from these claims alone; the user row is not
// re-read, so a deactivated account keeps its outstanding tokens until
// they expire.
type Claims struct {
	UserID     string     `json:"userId"`
	Role       model.Role `json:"role"`
	DivisionID *string    `json:"divisionId"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	jwt.RegisteredClaims
}

// TokenSigner signs and verifies bearer credentials.
type TokenSigner interface {
	// Sign issues a token embedding the claims, valid for the given TTL.
	Sign(claims Claims, ttl time.Duration) (string, error)
	// Verify checks signature and expiry and returns the embedded claims.
	Verify(token string) (*Claims, error)
}

var ErrInvalidToken = errors.New("invalid or expired token")

// hmacSigner is an HS256 implementation of TokenSigner.
type hmacSigner struct {
	secret []byte
}

// NewHMACSigner creates a TokenSigner using the given shared secret.
func NewHMACSigner(secret string) (TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &hmacSigner{secret: []byte(secret)}, nil
}

func (s *hmacSigner) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *hmacSigner) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
