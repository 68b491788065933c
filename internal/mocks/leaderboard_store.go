package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/trivia-server/internal/model"
)

// LeaderboardStore is a mock of model.LeaderboardStore.
type LeaderboardStore struct {
	mock.Mock
}

func (m *LeaderboardStore) SetPoints(ctx context.Context, userID string, points int64) error {
	args := m.Called(ctx, userID, points)
	return args.Error(0)
}

func (m *LeaderboardStore) Top(ctx context.Context, limit int64) ([]model.Standing, error) {
	args := m.Called(ctx, limit)
	standings, _ := args.Get(0).([]model.Standing)
	return standings, args.Error(1)
}

// NewLeaderboardStore creates a LeaderboardStore mock and asserts its expectations on test cleanup.
func NewLeaderboardStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *LeaderboardStore {
	m := &LeaderboardStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
