package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/league"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

// PointsPerCorrectAnswer is awarded for every accepted correct answer.
const PointsPerCorrectAnswer = 10

// Ledger operation names reported to the OperationRecorder.
const (
	OpAward    = "award"
	OpLike     = "like"
	OpUnlike   = "unlike"
	OpSave     = "save"
	OpUnsave   = "unsave"
	OpRegister = "register_posted"
	OpRetract  = "retract_posted"
)

// Operation outcomes reported to the OperationRecorder.
const (
	OutcomeOK                 = "ok"
	OutcomeUnauthenticated    = "unauthenticated"
	OutcomeUnauthorized       = "unauthorized"
	OutcomeNotFound           = "not_found"
	OutcomePreconditionFailed = "precondition_failed"
	OutcomeConflict           = "conflict"
	OutcomeInvalidInput       = "invalid_input"
	OutcomeError              = "error"
)

// membership describes one toggleable relation between a profile and a
// question: a set on the profile and a counter on the question.
type membership struct {
	set     string
	counter string
	has     func(model.Profile, string) bool
}

var (
	likes = membership{set: "likedQuestions", counter: "likes", has: model.Profile.HasLiked}
	saves = membership{set: "savedQuestions", counter: "saves", has: model.Profile.HasSaved}
)

// Ledger owns every operation that keeps points, leagues, counters and
// membership sets consistent. Each operation is a single transaction.
type Ledger struct {
	store     docstore.Store
	recorder  model.OperationRecorder
	logger    *logger.Logger
	awardOnce bool
}

// NewLedger creates a Ledger. With awardOnce set, a correct answer earns
// points only the first time a profile answers a given question.
func NewLedger(store docstore.Store, recorder model.OperationRecorder, logger *logger.Logger, awardOnce bool) *Ledger {
	return &Ledger{
		store:     store,
		recorder:  recorder,
		logger:    logger,
		awardOnce: awardOnce,
	}
}

// AwardPoints checks submitted against the question's correct option and,
// when it matches, adds PointsPerCorrectAnswer to the profile and recomputes
// its league in the same write.
func (l *Ledger) AwardPoints(ctx context.Context, userID, questionID, submitted string) (result model.AttemptResult, err error) {
	defer func() { l.record(OpAward, err) }()

	if err := requireIDs(userID, questionID); err != nil {
		return model.AttemptResult{}, err
	}

	result, err = docstore.Transact(ctx, l.store, func(ctx context.Context, tx docstore.Tx) (model.AttemptResult, error) {
		question, err := getQuestion(ctx, tx, questionID)
		if err != nil {
			return model.AttemptResult{}, err
		}
		profile, err := getProfile(ctx, tx, userID)
		if err != nil {
			return model.AttemptResult{}, err
		}

		res := model.AttemptResult{
			Correct: submitted == question.Correct,
			Points:  profile.Points,
			League:  profile.League,
		}
		if !res.Correct {
			return res, nil
		}
		if l.awardOnce && profile.HasAnswered(questionID) {
			return res, nil
		}

		res.Awarded = true
		res.Points = profile.Points + PointsPerCorrectAnswer
		res.League = league.Classify(res.Points)

		updates := []docstore.Update{
			{Path: "points", Value: res.Points},
			{Path: "league", Value: res.League},
		}
		if l.awardOnce {
			updates = append(updates, docstore.Update{Path: "answeredQuestions", Value: docstore.ArrayUnion(questionID)})
		}

		return res, tx.Update(profileRef(userID), updates...)
	})
	if err != nil {
		return model.AttemptResult{}, l.fail("award points", userID, questionID, err)
	}

	if result.Awarded {
		l.logger.Info("Ledger: points awarded", "user_id", userID, "question_id", questionID, "points", result.Points, "league", result.League)
	}

	return result, nil
}

// Like increments the question's like counter and adds it to the profile's
// liked set. Repeated likes keep incrementing the counter.
func (l *Ledger) Like(ctx context.Context, userID, questionID string) (err error) {
	defer func() { l.record(OpLike, err) }()
	return l.toggleOn(ctx, likes, userID, questionID)
}

// Unlike reverses a like. It fails with ErrPreconditionFailed when the
// question is not in the profile's liked set.
func (l *Ledger) Unlike(ctx context.Context, userID, questionID string) (err error) {
	defer func() { l.record(OpUnlike, err) }()
	return l.toggleOff(ctx, likes, userID, questionID)
}

// Save increments the question's save counter and adds it to the profile's
// saved set.
func (l *Ledger) Save(ctx context.Context, userID, questionID string) (err error) {
	defer func() { l.record(OpSave, err) }()
	return l.toggleOn(ctx, saves, userID, questionID)
}

// Unsave reverses a save. It fails with ErrPreconditionFailed when the
// question is not in the profile's saved set.
func (l *Ledger) Unsave(ctx context.Context, userID, questionID string) (err error) {
	defer func() { l.record(OpUnsave, err) }()
	return l.toggleOff(ctx, saves, userID, questionID)
}

// RegisterPosted adds questionID to the profile's posted set.
func (l *Ledger) RegisterPosted(ctx context.Context, userID, questionID string) (err error) {
	defer func() { l.record(OpRegister, err) }()

	if err := requireIDs(userID, questionID); err != nil {
		return err
	}

	err = l.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		if _, err := getProfile(ctx, tx, userID); err != nil {
			return err
		}
		return registerPosted(tx, userID, questionID)
	})
	if err != nil {
		return l.fail("register posted question", userID, questionID, err)
	}

	return nil
}

// RetractPosted deletes a question owned by userID and removes it from the
// owner's posted set in the same transaction.
func (l *Ledger) RetractPosted(ctx context.Context, userID, questionID string) (err error) {
	defer func() { l.record(OpRetract, err) }()

	if err := requireIDs(userID, questionID); err != nil {
		return err
	}

	err = l.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		question, err := getQuestion(ctx, tx, questionID)
		if err != nil {
			return err
		}
		if question.CreatedBy != userID {
			return fmt.Errorf("%w: question %s is owned by another user", model.ErrUnauthorized, questionID)
		}

		owner, err := tx.Get(ctx, profileRef(userID))
		if err != nil {
			return err
		}

		if err := tx.Delete(questionRef(questionID)); err != nil {
			return err
		}
		if !owner.Exists() {
			return nil
		}
		return tx.Update(profileRef(userID), docstore.Update{Path: "postedQuestions", Value: docstore.ArrayRemove(questionID)})
	})
	if err != nil {
		return l.fail("retract posted question", userID, questionID, err)
	}

	l.logger.Info("Ledger: question retracted", "user_id", userID, "question_id", questionID)
	return nil
}

func (l *Ledger) toggleOn(ctx context.Context, m membership, userID, questionID string) error {
	if err := requireIDs(userID, questionID); err != nil {
		return err
	}

	err := l.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		if _, err := getQuestion(ctx, tx, questionID); err != nil {
			return err
		}
		if _, err := getProfile(ctx, tx, userID); err != nil {
			return err
		}

		if err := tx.Update(questionRef(questionID), docstore.Update{Path: m.counter, Value: docstore.Increment(1)}); err != nil {
			return err
		}
		return tx.Update(profileRef(userID), docstore.Update{Path: m.set, Value: docstore.ArrayUnion(questionID)})
	})
	if err != nil {
		return l.fail("add "+m.set, userID, questionID, err)
	}

	return nil
}

func (l *Ledger) toggleOff(ctx context.Context, m membership, userID, questionID string) error {
	if err := requireIDs(userID, questionID); err != nil {
		return err
	}

	err := l.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		profile, err := getProfile(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !m.has(profile, questionID) {
			return fmt.Errorf("%w: question %s is not in %s", model.ErrPreconditionFailed, questionID, m.set)
		}
		if _, err := getQuestion(ctx, tx, questionID); err != nil {
			return err
		}

		if err := tx.Update(questionRef(questionID), docstore.Update{Path: m.counter, Value: docstore.Increment(-1)}); err != nil {
			return err
		}
		return tx.Update(profileRef(userID), docstore.Update{Path: m.set, Value: docstore.ArrayRemove(questionID)})
	})
	if err != nil {
		return l.fail("remove "+m.set, userID, questionID, err)
	}

	return nil
}

func (l *Ledger) fail(action, userID, questionID string, err error) error {
	err = translateStoreError(err)
	if classify(err) == OutcomeError {
		l.logger.Error("Ledger: failed to "+action, "user_id", userID, "question_id", questionID, "error", err)
	} else {
		l.logger.Debug("Ledger: rejected "+action, "user_id", userID, "question_id", questionID, "error", err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func (l *Ledger) record(operation string, err error) {
	if l.recorder != nil {
		l.recorder.RecordOperation(operation, classify(err))
	}
}

func registerPosted(tx docstore.Tx, userID, questionID string) error {
	return tx.Update(profileRef(userID), docstore.Update{Path: "postedQuestions", Value: docstore.ArrayUnion(questionID)})
}

func profileRef(userID string) docstore.Ref {
	return docstore.NewRef(model.ProfilesCollection, userID)
}

func questionRef(questionID string) docstore.Ref {
	return docstore.NewRef(model.QuestionsCollection, questionID)
}

func getProfile(ctx context.Context, tx docstore.Tx, userID string) (model.Profile, error) {
	snap, err := tx.Get(ctx, profileRef(userID))
	if err != nil {
		return model.Profile{}, err
	}
	return decodeProfile(snap)
}

func getQuestion(ctx context.Context, tx docstore.Tx, questionID string) (model.Question, error) {
	snap, err := tx.Get(ctx, questionRef(questionID))
	if err != nil {
		return model.Question{}, err
	}
	return decodeQuestion(snap)
}

func decodeProfile(snap *docstore.Snapshot) (model.Profile, error) {
	if !snap.Exists() {
		return model.Profile{}, fmt.Errorf("%w: profile %s", model.ErrNotFound, snap.Ref.ID)
	}

	var profile model.Profile
	if err := snap.DataTo(&profile); err != nil {
		return model.Profile{}, err
	}
	profile.ID = snap.Ref.ID
	profile.Normalize()
	return profile, nil
}

func decodeQuestion(snap *docstore.Snapshot) (model.Question, error) {
	if !snap.Exists() {
		return model.Question{}, fmt.Errorf("%w: question %s", model.ErrNotFound, snap.Ref.ID)
	}

	question := model.Question{ID: snap.Ref.ID}
	if err := snap.DataTo(&question); err != nil {
		return model.Question{}, err
	}
	return question, nil
}

func requireIDs(userID, questionID string) error {
	if userID == "" {
		return model.ErrUnauthenticated
	}
	if questionID == "" {
		return fmt.Errorf("%w: question id is required", model.ErrInvalidInput)
	}
	return nil
}

// translateStoreError maps document store failures onto the model taxonomy.
// Errors already in the taxonomy pass through.
func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, docstore.ErrTransactionConflict):
		return fmt.Errorf("%w: %w", model.ErrTransactionConflict, err)
	case errors.Is(err, docstore.ErrNotFound) && !errors.Is(err, model.ErrNotFound):
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	case errors.Is(err, docstore.ErrInvalidDocument), errors.Is(err, docstore.ErrInvalidRef):
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
	default:
		return err
	}
}

func classify(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, model.ErrUnauthenticated):
		return OutcomeUnauthenticated
	case errors.Is(err, model.ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, model.ErrPreconditionFailed):
		return OutcomePreconditionFailed
	case errors.Is(err, model.ErrTransactionConflict):
		return OutcomeConflict
	case errors.Is(err, model.ErrInvalidInput):
		return OutcomeInvalidInput
	default:
		return OutcomeError
	}
}
