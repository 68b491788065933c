package handler

import (
	"context"

	"github.com/dtroode/trivia-server/internal/api/grpc/rpc"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

// QuestionService defines business operations on questions and the
// caller's engagement with them.
type QuestionService interface {
	PostQuestion(ctx context.Context, userID string, draft model.QuestionDraft) (model.Question, error)
	DeleteQuestion(ctx context.Context, userID, questionID string) error
	ListQuestions(ctx context.Context, page int) ([]model.Question, error)
	GetQuestion(ctx context.Context, questionID string) (model.Question, error)
	Like(ctx context.Context, userID, questionID string) error
	Unlike(ctx context.Context, userID, questionID string) error
	Save(ctx context.Context, userID, questionID string) error
	Unsave(ctx context.Context, userID, questionID string) error
}

// Question handles gRPC endpoints for questions.
type Question struct {
	questionService QuestionService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

var _ rpc.QuestionsServer = (*Question)(nil)

// NewQuestion creates a new Question handler.
func NewQuestion(questionService QuestionService, contextManager model.ContextManager, logger *logger.Logger) *Question {
	return &Question{
		questionService: questionService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

func (h *Question) ListQuestions(ctx context.Context, req *rpc.ListQuestionsRequest) (*rpc.ListQuestionsResponse, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	questions, err := h.questionService.ListQuestions(ctx, req.Page)
	if err != nil {
		h.logger.Error("Question handler: list questions failed", "page", req.Page, "error", err.Error())
		return nil, handleError(err)
	}

	resp := &rpc.ListQuestionsResponse{Questions: make([]rpc.Question, 0, len(questions))}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, toRPCQuestion(q, principal.UserID))
	}

	return resp, nil
}

func (h *Question) GetQuestion(ctx context.Context, req *rpc.QuestionRequest) (*rpc.QuestionResponse, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	question, err := h.questionService.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, handleError(err)
	}

	return &rpc.QuestionResponse{Question: toRPCQuestion(question, principal.UserID)}, nil
}

func (h *Question) PostQuestion(ctx context.Context, req *rpc.PostQuestionRequest) (*rpc.QuestionResponse, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	question, err := h.questionService.PostQuestion(ctx, principal.UserID, model.QuestionDraft{
		Content: req.Content,
		Options: req.Options,
		Correct: req.Correct,
	})
	if err != nil {
		h.logger.Debug("Question handler: post question failed", "user_id", principal.UserID, "error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Question handler: question posted", "user_id", principal.UserID, "question_id", question.ID)
	return &rpc.QuestionResponse{Question: toRPCQuestion(question, principal.UserID)}, nil
}

func (h *Question) DeleteQuestion(ctx context.Context, req *rpc.QuestionRequest) (*rpc.Empty, error) {
	return h.apply(ctx, req, h.questionService.DeleteQuestion)
}

func (h *Question) LikeQuestion(ctx context.Context, req *rpc.QuestionRequest) (*rpc.Empty, error) {
	return h.apply(ctx, req, h.questionService.Like)
}

func (h *Question) UnlikeQuestion(ctx context.Context, req *rpc.QuestionRequest) (*rpc.Empty, error) {
	return h.apply(ctx, req, h.questionService.Unlike)
}

func (h *Question) SaveQuestion(ctx context.Context, req *rpc.QuestionRequest) (*rpc.Empty, error) {
	return h.apply(ctx, req, h.questionService.Save)
}

func (h *Question) UnsaveQuestion(ctx context.Context, req *rpc.QuestionRequest) (*rpc.Empty, error) {
	return h.apply(ctx, req, h.questionService.Unsave)
}

// apply runs a per-question action on behalf of the caller.
func (h *Question) apply(
	ctx context.Context,
	req *rpc.QuestionRequest,
	action func(ctx context.Context, userID, questionID string) error,
) (*rpc.Empty, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := action(ctx, principal.UserID, req.QuestionID); err != nil {
		return nil, handleError(err)
	}

	return &rpc.Empty{}, nil
}

// toRPCQuestion hides the correct option from everyone but the author.
func toRPCQuestion(q model.Question, viewerID string) rpc.Question {
	out := rpc.Question{
		ID:        q.ID,
		Content:   q.Content,
		Options:   q.Options,
		Likes:     q.Likes,
		Saves:     q.Saves,
		CreatedAt: q.CreatedAt,
		CreatedBy: q.CreatedBy,
	}
	if out.Options == nil {
		out.Options = []string{}
	}
	if viewerID != "" && viewerID == q.CreatedBy {
		out.Correct = q.Correct
	}
	return out
}
