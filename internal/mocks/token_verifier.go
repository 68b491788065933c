package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/trivia-server/internal/model"
)

// TokenVerifier is a mock of model.TokenVerifier.
type TokenVerifier struct {
	mock.Mock
}

func (m *TokenVerifier) Verify(ctx context.Context, token string) (model.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Principal), args.Error(1)
}

// NewTokenVerifier creates a TokenVerifier mock and asserts its expectations on test cleanup.
func NewTokenVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenVerifier {
	m := &TokenVerifier{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
