package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/docstore/memory"
	"github.com/dtroode/trivia-server/internal/league"
	"github.com/dtroode/trivia-server/internal/mocks"
	"github.com/dtroode/trivia-server/internal/model"
	"github.com/dtroode/trivia-server/internal/testutil"
)

func newStore() *docstore.Client {
	return docstore.New(memory.New(), docstore.WithRetryPolicy(docstore.RetryPolicy{
		MaxAttempts:     200,
		InitialInterval: time.Microsecond,
		MaxInterval:     time.Millisecond,
	}))
}

func newLedger(store docstore.Store, awardOnce bool) *Ledger {
	return NewLedger(store, nil, testutil.MakeNoopLogger(), awardOnce)
}

func putProfile(t *testing.T, store docstore.Store, p model.Profile) {
	t.Helper()
	p.Normalize()
	err := store.RunTransaction(context.Background(), func(ctx context.Context, tx docstore.Tx) error {
		return tx.Set(profileRef(p.ID), p)
	})
	require.NoError(t, err)
}

func putQuestion(t *testing.T, store docstore.Store, q model.Question) {
	t.Helper()
	if q.Options == nil {
		q.Options = []string{"a", "b", "c"}
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	err := store.RunTransaction(context.Background(), func(ctx context.Context, tx docstore.Tx) error {
		return tx.Set(questionRef(q.ID), q)
	})
	require.NoError(t, err)
}

func loadProfile(t *testing.T, store docstore.Store, userID string) model.Profile {
	t.Helper()
	snap, err := store.Get(context.Background(), profileRef(userID))
	require.NoError(t, err)
	p, err := decodeProfile(snap)
	require.NoError(t, err)
	return p
}

func loadQuestion(t *testing.T, store docstore.Store, questionID string) model.Question {
	t.Helper()
	snap, err := store.Get(context.Background(), questionRef(questionID))
	require.NoError(t, err)
	q, err := decodeQuestion(snap)
	require.NoError(t, err)
	return q
}

func TestLedger_AwardPoints(t *testing.T) {
	tests := []struct {
		name       string
		points     int64
		submitted  string
		want       model.AttemptResult
		wantPoints int64
		wantLeague string
	}{
		{
			name:       "correct answer crosses into silver",
			points:     95,
			submitted:  "b",
			want:       model.AttemptResult{Correct: true, Awarded: true, Points: 105, League: league.Silver},
			wantPoints: 105,
			wantLeague: league.Silver,
		},
		{
			name:       "correct answer stays in tier",
			points:     0,
			submitted:  "b",
			want:       model.AttemptResult{Correct: true, Awarded: true, Points: 10, League: league.Bronze},
			wantPoints: 10,
			wantLeague: league.Bronze,
		},
		{
			name:       "correct answer reaches legendary",
			points:     990,
			submitted:  "b",
			want:       model.AttemptResult{Correct: true, Awarded: true, Points: 1000, League: league.Legendary},
			wantPoints: 1000,
			wantLeague: league.Legendary,
		},
		{
			name:       "wrong answer changes nothing",
			points:     95,
			submitted:  "a",
			want:       model.AttemptResult{Correct: false, Points: 95, League: league.Bronze},
			wantPoints: 95,
			wantLeague: league.Bronze,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newStore()
			putProfile(t, store, model.Profile{ID: "u1", Username: "alice", Points: tt.points, League: league.Classify(tt.points)})
			putQuestion(t, store, model.Question{ID: "q1", Correct: "b", CreatedBy: "u2"})

			got, err := newLedger(store, false).AwardPoints(context.Background(), "u1", "q1", tt.submitted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			p := loadProfile(t, store, "u1")
			assert.Equal(t, tt.wantPoints, p.Points)
			assert.Equal(t, tt.wantLeague, p.League)
		})
	}
}

func TestLedger_AwardPoints_Repeated(t *testing.T) {
	t.Run("awards every time by default", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", League: league.Bronze})
		putQuestion(t, store, model.Question{ID: "q1", Correct: "b"})
		ledger := newLedger(store, false)

		for range 3 {
			res, err := ledger.AwardPoints(context.Background(), "u1", "q1", "b")
			require.NoError(t, err)
			assert.True(t, res.Awarded)
		}

		p := loadProfile(t, store, "u1")
		assert.Equal(t, int64(30), p.Points)
		assert.Empty(t, p.AnsweredQuestions)
	})

	t.Run("awards once when configured", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", League: league.Bronze})
		putQuestion(t, store, model.Question{ID: "q1", Correct: "b"})
		ledger := newLedger(store, true)

		first, err := ledger.AwardPoints(context.Background(), "u1", "q1", "b")
		require.NoError(t, err)
		assert.True(t, first.Awarded)

		second, err := ledger.AwardPoints(context.Background(), "u1", "q1", "b")
		require.NoError(t, err)
		assert.Equal(t, model.AttemptResult{Correct: true, Awarded: false, Points: 10, League: league.Bronze}, second)

		p := loadProfile(t, store, "u1")
		assert.Equal(t, int64(10), p.Points)
		assert.Equal(t, []string{"q1"}, p.AnsweredQuestions)
	})
}

func TestLedger_AwardPoints_Errors(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1"})
	putQuestion(t, store, model.Question{ID: "q1", Correct: "b"})
	ledger := newLedger(store, false)
	ctx := context.Background()

	_, err := ledger.AwardPoints(ctx, "", "q1", "b")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = ledger.AwardPoints(ctx, "u1", "missing", "b")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = ledger.AwardPoints(ctx, "nobody", "q1", "b")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLedger_AwardPoints_Concurrent(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1"})
	for i := range 10 {
		putQuestion(t, store, model.Question{ID: fmt.Sprintf("q%d", i), Correct: "b"})
	}
	ledger := newLedger(store, false)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.AwardPoints(context.Background(), "u1", fmt.Sprintf("q%d", i), "b")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p := loadProfile(t, store, "u1")
	assert.Equal(t, int64(100), p.Points)
	assert.Equal(t, league.Silver, p.League)
}

func TestLedger_LikeTwice(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1"})
	putQuestion(t, store, model.Question{ID: "q1"})
	ledger := newLedger(store, false)
	ctx := context.Background()

	require.NoError(t, ledger.Like(ctx, "u1", "q1"))
	require.NoError(t, ledger.Like(ctx, "u1", "q1"))

	assert.Equal(t, int64(2), loadQuestion(t, store, "q1").Likes)
	assert.Equal(t, []string{"q1"}, loadProfile(t, store, "u1").LikedQuestions)

	require.NoError(t, ledger.Unlike(ctx, "u1", "q1"))
	err := ledger.Unlike(ctx, "u1", "q1")
	require.ErrorIs(t, err, model.ErrPreconditionFailed)

	assert.Equal(t, int64(1), loadQuestion(t, store, "q1").Likes)
	assert.Empty(t, loadProfile(t, store, "u1").LikedQuestions)
}

func TestLedger_UnlikeWithoutLike(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1", LikedQuestions: []string{"other"}})
	putQuestion(t, store, model.Question{ID: "q1", Likes: 3})
	ledger := newLedger(store, false)

	err := ledger.Unlike(context.Background(), "u1", "q1")
	require.ErrorIs(t, err, model.ErrPreconditionFailed)

	assert.Equal(t, int64(3), loadQuestion(t, store, "q1").Likes)
	assert.Equal(t, []string{"other"}, loadProfile(t, store, "u1").LikedQuestions)
}

func TestLedger_SaveUnsave(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1"})
	putQuestion(t, store, model.Question{ID: "q1"})
	ledger := newLedger(store, false)
	ctx := context.Background()

	err := ledger.Unsave(ctx, "u1", "q1")
	require.ErrorIs(t, err, model.ErrPreconditionFailed)

	require.NoError(t, ledger.Save(ctx, "u1", "q1"))
	assert.Equal(t, int64(1), loadQuestion(t, store, "q1").Saves)
	assert.Equal(t, []string{"q1"}, loadProfile(t, store, "u1").SavedQuestions)

	require.NoError(t, ledger.Unsave(ctx, "u1", "q1"))
	assert.Equal(t, int64(0), loadQuestion(t, store, "q1").Saves)
	assert.Empty(t, loadProfile(t, store, "u1").SavedQuestions)

	// Likes are untouched by saves.
	assert.Equal(t, int64(0), loadQuestion(t, store, "q1").Likes)
}

func TestLedger_ToggleMissingDocuments(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1", LikedQuestions: []string{"gone"}})
	putQuestion(t, store, model.Question{ID: "q1"})
	ledger := newLedger(store, false)
	ctx := context.Background()

	assert.ErrorIs(t, ledger.Like(ctx, "u1", "missing"), model.ErrNotFound)
	assert.ErrorIs(t, ledger.Save(ctx, "nobody", "q1"), model.ErrNotFound)
	assert.ErrorIs(t, ledger.Unlike(ctx, "u1", "gone"), model.ErrNotFound)
	assert.ErrorIs(t, ledger.Like(ctx, "u1", ""), model.ErrInvalidInput)

	assert.Equal(t, int64(0), loadQuestion(t, store, "q1").Saves)
	assert.Equal(t, []string{"gone"}, loadProfile(t, store, "u1").LikedQuestions)
}

func TestLedger_ConcurrentLikes(t *testing.T) {
	const users = 25

	store := newStore()
	putQuestion(t, store, model.Question{ID: "q1"})
	for i := range users {
		putProfile(t, store, model.Profile{ID: fmt.Sprintf("u%d", i)})
	}
	ledger := newLedger(store, false)

	var wg sync.WaitGroup
	for i := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ledger.Like(context.Background(), fmt.Sprintf("u%d", i), "q1"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(users), loadQuestion(t, store, "q1").Likes)
	assert.Equal(t, users, countMembers(t, store, users, model.Profile.HasLiked, "q1"))
}

func TestLedger_ConcurrentLikesAndUnlikes(t *testing.T) {
	const users = 20

	store := newStore()
	putQuestion(t, store, model.Question{ID: "q1"})
	for i := range users {
		putProfile(t, store, model.Profile{ID: fmt.Sprintf("u%d", i)})
	}
	ledger := newLedger(store, false)

	var wg sync.WaitGroup
	for i := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i)
			assert.NoError(t, ledger.Like(context.Background(), userID, "q1"))
			if i%2 == 0 {
				assert.NoError(t, ledger.Unlike(context.Background(), userID, "q1"))
			}
		}()
	}
	wg.Wait()

	members := countMembers(t, store, users, model.Profile.HasLiked, "q1")
	assert.Equal(t, users/2, members)
	assert.Equal(t, int64(members), loadQuestion(t, store, "q1").Likes)
}

func countMembers(t *testing.T, store docstore.Store, users int, has func(model.Profile, string) bool, questionID string) int {
	t.Helper()
	n := 0
	for i := range users {
		if has(loadProfile(t, store, fmt.Sprintf("u%d", i)), questionID) {
			n++
		}
	}
	return n
}

func TestLedger_RegisterPosted(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1"})
	ledger := newLedger(store, false)
	ctx := context.Background()

	require.NoError(t, ledger.RegisterPosted(ctx, "u1", "q1"))
	require.NoError(t, ledger.RegisterPosted(ctx, "u1", "q1"))
	assert.Equal(t, []string{"q1"}, loadProfile(t, store, "u1").PostedQuestions)

	assert.ErrorIs(t, ledger.RegisterPosted(ctx, "nobody", "q1"), model.ErrNotFound)
}

func TestLedger_RetractPosted(t *testing.T) {
	t.Run("owner retracts", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "a", PostedQuestions: []string{"q1", "q2"}})
		putQuestion(t, store, model.Question{ID: "q1", CreatedBy: "a"})

		require.NoError(t, newLedger(store, false).RetractPosted(context.Background(), "a", "q1"))

		snap, err := store.Get(context.Background(), questionRef("q1"))
		require.NoError(t, err)
		assert.False(t, snap.Exists())
		assert.Equal(t, []string{"q2"}, loadProfile(t, store, "a").PostedQuestions)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "a"})
		putProfile(t, store, model.Profile{ID: "b", PostedQuestions: []string{"q1"}})
		putQuestion(t, store, model.Question{ID: "q1", CreatedBy: "b", Likes: 1})

		err := newLedger(store, false).RetractPosted(context.Background(), "a", "q1")
		require.ErrorIs(t, err, model.ErrUnauthorized)

		q := loadQuestion(t, store, "q1")
		assert.Equal(t, "b", q.CreatedBy)
		assert.Equal(t, int64(1), q.Likes)
		assert.Equal(t, []string{"q1"}, loadProfile(t, store, "b").PostedQuestions)
		assert.Empty(t, loadProfile(t, store, "a").PostedQuestions)
	})

	t.Run("missing question", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "a"})

		err := newLedger(store, false).RetractPosted(context.Background(), "a", "q1")
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestLedger_RecordsOutcomes(t *testing.T) {
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1"})
	putQuestion(t, store, model.Question{ID: "q1", Correct: "b", CreatedBy: "u2"})

	recorder := &mocks.OperationRecorder{}
	recorder.On("RecordOperation", OpLike, OutcomeOK).Once()
	recorder.On("RecordOperation", OpUnsave, OutcomePreconditionFailed).Once()
	recorder.On("RecordOperation", OpRetract, OutcomeUnauthorized).Once()
	recorder.On("RecordOperation", OpAward, OutcomeNotFound).Once()
	recorder.On("RecordOperation", OpSave, OutcomeUnauthenticated).Once()

	ledger := NewLedger(store, recorder, testutil.MakeNoopLogger(), false)
	ctx := context.Background()

	require.NoError(t, ledger.Like(ctx, "u1", "q1"))
	require.Error(t, ledger.Unsave(ctx, "u1", "q1"))
	require.Error(t, ledger.RetractPosted(ctx, "u1", "q1"))
	_, err := ledger.AwardPoints(ctx, "u1", "missing", "b")
	require.Error(t, err)
	require.Error(t, ledger.Save(ctx, "", "q1"))

	recorder.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "RecordOperation", 5)
}

// conflictingStore always reports retries exhausted.
type conflictingStore struct {
	docstore.Store
}

func (conflictingStore) RunTransaction(context.Context, docstore.TxFunc) error {
	return fmt.Errorf("%w after 5 attempts", docstore.ErrTransactionConflict)
}

func TestLedger_TransactionConflict(t *testing.T) {
	recorder := &mocks.OperationRecorder{}
	recorder.On("RecordOperation", mock.Anything, OutcomeConflict)

	ledger := NewLedger(conflictingStore{Store: newStore()}, recorder, testutil.MakeNoopLogger(), false)

	err := ledger.Like(context.Background(), "u1", "q1")
	assert.ErrorIs(t, err, model.ErrTransactionConflict)
	assert.ErrorIs(t, err, docstore.ErrTransactionConflict)

	recorder.AssertCalled(t, "RecordOperation", OpLike, OutcomeConflict)
}

func TestTranslateStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "conflict", err: docstore.ErrTransactionConflict, want: model.ErrTransactionConflict},
		{name: "missing document", err: docstore.ErrNotFound, want: model.ErrNotFound},
		{name: "bad shape", err: docstore.ErrInvalidDocument, want: model.ErrInvalidInput},
		{name: "taxonomy passes through", err: model.ErrPreconditionFailed, want: model.ErrPreconditionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateStoreError(tt.err), tt.want)
		})
	}

	assert.NoError(t, translateStoreError(nil))
	assert.Equal(t, OutcomeError, classify(assert.AnError))
}
