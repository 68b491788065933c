package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

// QuestionsPerPage is the fixed page size of ListQuestions.
const QuestionsPerPage = 10

// maxPage is the last page whose offset fits in an int.
const maxPage = math.MaxInt/QuestionsPerPage + 1

type Question struct {
	store  docstore.Store
	ledger *Ledger
	logger *logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewQuestion(store docstore.Store, ledger *Ledger, logger *logger.Logger) *Question {
	return &Question{
		store:  store,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// PostQuestion stores a new question authored by userID and registers it in
// the author's posted set within one transaction.
func (s *Question) PostQuestion(ctx context.Context, userID string, draft model.QuestionDraft) (model.Question, error) {
	if userID == "" {
		return model.Question{}, model.ErrUnauthenticated
	}
	if err := draft.Validate(); err != nil {
		return model.Question{}, err
	}

	question := model.Question{
		ID:        s.newID(),
		Content:   draft.Content,
		Options:   draft.Options,
		Correct:   draft.Correct,
		CreatedAt: s.now().UTC(),
		CreatedBy: userID,
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		if _, err := getProfile(ctx, tx, userID); err != nil {
			return err
		}
		if err := tx.Create(questionRef(question.ID), question); err != nil {
			return err
		}
		return registerPosted(tx, userID, question.ID)
	})
	s.ledger.record(OpRegister, translateStoreError(err))
	if err != nil {
		err = translateStoreError(err)
		s.logger.Debug("Question: failed to post question", "user_id", userID, "error", err)
		return model.Question{}, fmt.Errorf("failed to post question: %w", err)
	}

	s.logger.Info("Question: question posted", "user_id", userID, "question_id", question.ID)
	return question, nil
}

// DeleteQuestion deletes a question owned by userID.
func (s *Question) DeleteQuestion(ctx context.Context, userID, questionID string) error {
	return s.ledger.RetractPosted(ctx, userID, questionID)
}

// ListQuestions returns page (1-based) of questions, newest first.
func (s *Question) ListQuestions(ctx context.Context, page int) ([]model.Question, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		return []model.Question{}, nil
	}

	snaps, err := s.store.Query(ctx, docstore.Query{
		Collection: model.QuestionsCollection,
		OrderBy:    "createdAt",
		Direction:  docstore.Desc,
		Offset:     (page - 1) * QuestionsPerPage,
		Limit:      QuestionsPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", translateStoreError(err))
	}

	questions := make([]model.Question, 0, len(snaps))
	for _, snap := range snaps {
		q, err := decodeQuestion(snap)
		if err != nil {
			s.logger.Error("Question: skipping malformed question", "question_id", snap.Ref.ID, "error", err)
			continue
		}
		questions = append(questions, q)
	}

	return questions, nil
}

func (s *Question) GetQuestion(ctx context.Context, questionID string) (model.Question, error) {
	if questionID == "" {
		return model.Question{}, fmt.Errorf("%w: question id is required", model.ErrInvalidInput)
	}

	snap, err := s.store.Get(ctx, questionRef(questionID))
	if err != nil {
		return model.Question{}, fmt.Errorf("failed to get question: %w", translateStoreError(err))
	}

	question, err := decodeQuestion(snap)
	if err != nil {
		return model.Question{}, fmt.Errorf("failed to get question: %w", translateStoreError(err))
	}

	return question, nil
}

func (s *Question) Like(ctx context.Context, userID, questionID string) error {
	return s.ledger.Like(ctx, userID, questionID)
}

func (s *Question) Unlike(ctx context.Context, userID, questionID string) error {
	return s.ledger.Unlike(ctx, userID, questionID)
}

func (s *Question) Save(ctx context.Context, userID, questionID string) error {
	return s.ledger.Save(ctx, userID, questionID)
}

func (s *Question) Unsave(ctx context.Context, userID, questionID string) error {
	return s.ledger.Unsave(ctx, userID, questionID)
}
