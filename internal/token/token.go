// Package token signs and verifies the HS256 JSON Web Tokens that carry a
// user's identity. Verification is purely cryptographic and time based; the
// session table decides whether a valid token is still live.
package token

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose separates access tokens from the single-use tokens sent by email.
type Purpose string

const (
	PurposeAccess Purpose = "access"
	PurposeReset  Purpose = "reset"
	PurposeVerify Purpose = "verify"
)

var (
	ErrExpired     = errors.New("token expired")
	ErrMalformed   = errors.New("token malformed")
	ErrNotYetValid = errors.New("token not valid yet")
	ErrInvalid     = errors.New("token invalid")
)

// Claims is the signed payload.
type Claims struct {
	Email   string  `json:"email"`
	UserID  uint    `json:"userId"`
	Role    string  `json:"role,omitempty"`
	Purpose Purpose `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Generate signs claims with secret and returns the token together with its
// lifetime in seconds. IssuedAt and ExpiresAt are always overwritten.
func Generate(claims Claims, secret []byte, ttl time.Duration) (string, int64, error) {
	if len(secret) == 0 {
		return "", 0, errors.New("empty signing secret")
	}
	if ttl <= 0 {
		return "", 0, fmt.Errorf("non-positive ttl %s", ttl)
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.Purpose == "" {
		claims.Purpose = PurposeAccess
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(ttl / time.Second), nil
}

// Verify checks the signature and time claims of tokenString. Failures are
// reported as one of ErrExpired, ErrMalformed, ErrNotYetValid or ErrInvalid.
func Verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil && tok.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformed
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrNotYetValid
	default:
		return nil, ErrInvalid
	}
}

// ParseTTL accepts anything time.ParseDuration does plus a day suffix, e.g.
// "7d".
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var (
		d   time.Duration
		err error
	)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		var n int
		n, err = strconv.Atoi(days)
		if err == nil && int64(n) > math.MaxInt64/int64(24*time.Hour) {
			return 0, fmt.Errorf("ttl %q is too long", s)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		d, err = time.ParseDuration(s)
	}
	if err != nil {
		return 0, fmt.Errorf("parse ttl %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ttl %q must be positive", s)
	}
	return d, nil
}
