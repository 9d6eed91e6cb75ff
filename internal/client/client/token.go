package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry returns the exp claim of token when it is a JWT carrying one.
// The signature is not verified; the result is only used for display.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
