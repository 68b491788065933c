package context

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/dtroode/trivia-server/internal/model"
)

// Metadata keys used to store the authenticated principal in gRPC context.
const (
	userIDKey string = "x-principal-user-id"
	emailKey  string = "x-principal-email"
)

// Manager represents a gRPC context manager for principal operations.
// It stores the principal in incoming metadata so handlers downstream of
// the auth interceptor can read it.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext sets the principal in the incoming metadata and
// returns the derived context. Values supplied by the caller under the same
// keys are overwritten.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	} else {
		md = md.Copy()
	}

	md.Set(userIDKey, principal.UserID)
	if principal.Email != "" {
		md.Set(emailKey, principal.Email)
	} else {
		md.Delete(emailKey)
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetPrincipalFromContext retrieves the principal from incoming metadata.
// It reports false when no user id is present.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return model.Principal{}, false
	}

	userIDs := md.Get(userIDKey)
	if len(userIDs) == 0 || userIDs[0] == "" {
		return model.Principal{}, false
	}

	principal := model.Principal{UserID: userIDs[0]}
	if emails := md.Get(emailKey); len(emails) > 0 {
		principal.Email = emails[0]
	}

	return principal, true
}
