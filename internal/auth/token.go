// HS256 bearer tokens for API clients that cannot hold a session cookie.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when no signing secret is configured. Signing
// or verifying with an empty HS256 key would let anyone mint tokens.
var ErrNoSecret = errors.New("token signing secret is not configured")

type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService returns a token service with a one-week token lifetime,
// matching the session cookie lifetime.
func NewTokenService(secret string) TokenService {
	return TokenService{
		Secret:   []byte(secret),
		Issuer:   "manna",
		Duration: 7 * 24 * time.Hour,
	}
}

// Enabled reports whether the service has a secret to sign with.
func (ts TokenService) Enabled() bool {
	return len(ts.Secret) > 0
}

func (ts TokenService) Sign(userID int64, username, role string) (string, time.Time, error) {
	if !ts.Enabled() {
		return "", time.Time{}, ErrNoSecret
	}
	exp := time.Now().Add(ts.Duration)

	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (ts TokenService) Parse(tokenString string) (*Claims, error) {
	if !ts.Enabled() {
		return nil, ErrNoSecret
	}
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
