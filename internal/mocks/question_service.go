package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/trivia-server/internal/model"
)

// QuestionService is a mock of handler.QuestionService.
type QuestionService struct {
	mock.Mock
}

func (m *QuestionService) PostQuestion(ctx context.Context, userID string, draft model.QuestionDraft) (model.Question, error) {
	args := m.Called(ctx, userID, draft)
	return args.Get(0).(model.Question), args.Error(1)
}

func (m *QuestionService) DeleteQuestion(ctx context.Context, userID, questionID string) error {
	return m.Called(ctx, userID, questionID).Error(0)
}

func (m *QuestionService) ListQuestions(ctx context.Context, page int) ([]model.Question, error) {
	args := m.Called(ctx, page)
	questions, _ := args.Get(0).([]model.Question)
	return questions, args.Error(1)
}

func (m *QuestionService) GetQuestion(ctx context.Context, questionID string) (model.Question, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(model.Question), args.Error(1)
}

func (m *QuestionService) Like(ctx context.Context, userID, questionID string) error {
	return m.Called(ctx, userID, questionID).Error(0)
}

func (m *QuestionService) Unlike(ctx context.Context, userID, questionID string) error {
	return m.Called(ctx, userID, questionID).Error(0)
}

func (m *QuestionService) Save(ctx context.Context, userID, questionID string) error {
	return m.Called(ctx, userID, questionID).Error(0)
}

func (m *QuestionService) Unsave(ctx context.Context, userID, questionID string) error {
	return m.Called(ctx, userID, questionID).Error(0)
}

// NewQuestionService creates a QuestionService mock and asserts its expectations on test cleanup.
func NewQuestionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuestionService {
	m := &QuestionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
