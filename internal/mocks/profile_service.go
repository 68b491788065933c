package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/trivia-server/internal/model"
)

// ProfileService is a mock of handler.ProfileService.
type ProfileService struct {
	mock.Mock
}

func (m *ProfileService) CreateProfile(ctx context.Context, userID, username, displayName string) (model.Profile, error) {
	args := m.Called(ctx, userID, username, displayName)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileService) GetByID(ctx context.Context, userID string) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileService) GetByUsername(ctx context.Context, username string) (model.Profile, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileService) UpdateDisplayName(ctx context.Context, userID, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *ProfileService) AttemptQuestion(ctx context.Context, userID, questionID, option string) (model.AttemptResult, error) {
	args := m.Called(ctx, userID, questionID, option)
	return args.Get(0).(model.AttemptResult), args.Error(1)
}

func (m *ProfileService) Leaderboard(ctx context.Context, limit int64) ([]model.Standing, error) {
	args := m.Called(ctx, limit)
	standings, _ := args.Get(0).([]model.Standing)
	return standings, args.Error(1)
}

// NewProfileService creates a ProfileService mock and asserts its expectations on test cleanup.
func NewProfileService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProfileService {
	m := &ProfileService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
