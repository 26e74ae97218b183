// Package auth handles the optional signed widget tokens. When Cliq is
// configured to sign requests, it sends an HS256 JWT whose claims carry
// the caller identity; verifying the signature is what stops anyone
// from impersonating a user by forging the X-Cliq-* headers.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload inside a signed widget token.
type Claims struct {
	CliqUserID  string `json:"cliq_user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed widget token. The service itself only
// needs this in tests and tooling; in production Cliq is the issuer.
func GenerateToken(cliqUserID, displayName, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		CliqUserID:  cliqUserID,
		DisplayName: displayName,
		Email:       email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "cliqnotion",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a widget token and extracts the claims. It
// checks the signature, the expiry, and that the signing method is
// HMAC — a token signed with "none" or RSA is rejected outright, which
// closes the classic algorithm-confusion hole.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
