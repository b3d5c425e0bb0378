package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IngestClaims identifies the producer sending log records.
type IngestClaims struct {
	Source string `json:"source"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for source.
func GenerateToken(source, secret string, expires time.Duration) (string, error) {
	claims := IngestClaims{
		Source: source,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   source,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expires)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateToken parses an HS256 token and returns its claims.
func ValidateToken(tokenString, secret string) (*IngestClaims, error) {
	claims := &IngestClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
