package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

const bearerPrefix = "Bearer "

// Authenticate validates bearer tokens and injects the principal into context.
type Authenticate struct {
	verifier       model.TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(verifier model.TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{verifier: verifier, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, verifies the token and returns
// a context carrying the principal.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeaders[0], bearerPrefix))
		}
	}

	if tokenString == "" {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	principal, err := m.verifier.Verify(ctx, tokenString)
	if err != nil {
		m.logger.Debug("Authenticate: token rejected", "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}
	if principal.UserID == "" {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetPrincipalToContext(ctx, principal), nil
}
