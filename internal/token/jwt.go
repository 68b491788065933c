package token

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/trivia-server/internal/model"
)

// Claims are the identity claims the verifier accepts. The subject carries
// the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWT verifies HMAC-signed identity tokens issued by the identity provider.
type JWT struct {
	secretKey string
	issuer    string
}

var _ model.TokenVerifier = (*JWT)(nil)

// NewJWT creates a verifier for tokens signed with secretKey. When issuer is
// not empty the iss claim must match it.
func NewJWT(secretKey, issuer string) *JWT {
	return &JWT{secretKey: secretKey, issuer: issuer}
}

// Verify validates the token and returns the principal it was issued for.
// Every failure wraps model.ErrUnauthenticated.
func (j *JWT) Verify(_ context.Context, tokenString string) (model.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, opts...)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: failed to parse token: %v", model.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return model.Principal{}, fmt.Errorf("%w: token is invalid", model.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return model.Principal{}, fmt.Errorf("%w: token has no subject", model.ErrUnauthenticated)
	}

	return model.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
