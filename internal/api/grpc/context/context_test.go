package context

import (
	stdctx "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/trivia-server/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	p := model.Principal{UserID: "user-1", Email: "user@example.com"}
	ctx := m.SetPrincipalToContext(stdctx.Background(), p)

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, p, got)
}

func TestManager_GetPrincipal_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetPrincipalFromContext(stdctx.Background())
	assert.False(t, ok)

	ctx := metadata.NewIncomingContext(stdctx.Background(), metadata.New(map[string]string{"authorization": "Bearer x"}))
	_, ok = m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_SetPrincipal_WithExistingMetadata(t *testing.T) {
	m := NewManager()
	baseMD := metadata.New(map[string]string{"x-trace-id": "t"})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), baseMD)

	ctx := m.SetPrincipalToContext(ctxWithMD, model.Principal{UserID: "user-1"})
	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.Principal{UserID: "user-1"}, got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"t"}, md.Get("x-trace-id"))
	assert.Empty(t, baseMD.Get(userIDKey))
}

func TestManager_SetPrincipal_OverridesCallerValues(t *testing.T) {
	m := NewManager()
	spoofed := metadata.New(map[string]string{userIDKey: "admin", emailKey: "admin@example.com"})
	ctx := metadata.NewIncomingContext(stdctx.Background(), spoofed)

	ctx = m.SetPrincipalToContext(ctx, model.Principal{UserID: "user-1"})
	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.Principal{UserID: "user-1"}, got)
}
