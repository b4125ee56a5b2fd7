// Package auth provides optional bearer-token protection for the API. When
// no secret is configured the API stays open, matching the original service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// MinSecretLength guards against weak HMAC secrets.
const MinSecretLength = 32

// Claims carries the authenticated subject.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service issues and validates HMAC-signed tokens.
type Service struct {
	secret []byte
	expiry time.Duration
}

// NewService creates a token service.
func NewService(secret string, expiry time.Duration) (*Service, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("secret must be at least %d characters long", MinSecretLength)
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), expiry: expiry}, nil
}

// GenerateToken issues a token for userID.
func (s *Service) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
