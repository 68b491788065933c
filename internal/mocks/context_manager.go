package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/trivia-server/internal/model"
)

// ContextManager is a mock of model.ContextManager.
type ContextManager struct {
	mock.Mock
}

func (m *ContextManager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	args := m.Called(ctx, principal)
	return args.Get(0).(context.Context)
}

func (m *ContextManager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	args := m.Called(ctx)
	return args.Get(0).(model.Principal), args.Bool(1)
}

// NewContextManager creates a ContextManager mock and asserts its expectations on test cleanup.
func NewContextManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
