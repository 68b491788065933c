package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/trivia-server/internal/model"
)

// SignToken issues an HS256 identity token for principal, valid for ttl.
// A negative ttl yields an expired token.
func SignToken(secret, issuer string, principal model.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": principal.UserID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if principal.Email != "" {
		claims["email"] = principal.Email
	}
	if issuer != "" {
		claims["iss"] = issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
