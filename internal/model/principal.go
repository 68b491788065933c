package model

import "context"

// Principal is the authenticated acting user.
type Principal struct {
	UserID string
	Email  string
}

// TokenVerifier maps a bearer token to the principal it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// ContextManager stores and retrieves the principal on a request context.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
