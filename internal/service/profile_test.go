package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/league"
	"github.com/dtroode/trivia-server/internal/mocks"
	"github.com/dtroode/trivia-server/internal/model"
	"github.com/dtroode/trivia-server/internal/testutil"
)

func newProfileService(store docstore.Store, board model.LeaderboardStore) *Profile {
	log := testutil.MakeNoopLogger()
	return NewProfile(store, NewLedger(store, nil, log, false), board, log)
}

func TestProfile_CreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("creates zeroed profile", func(t *testing.T) {
		store := newStore()
		board := &mocks.LeaderboardStore{}
		board.On("SetPoints", mock.Anything, "u1", int64(0)).Return(nil).Once()

		p, err := newProfileService(store, board).CreateProfile(ctx, "u1", "alice", "Alice")
		require.NoError(t, err)

		want := model.Profile{
			ID:              "u1",
			DisplayName:     "Alice",
			Username:        "alice",
			League:          league.Bronze,
			PostedQuestions: []string{},
			LikedQuestions:  []string{},
			SavedQuestions:  []string{},
		}
		assert.Equal(t, want, p)
		assert.Equal(t, want, loadProfile(t, store, "u1"))
		board.AssertExpectations(t)
	})

	t.Run("display name defaults to username", func(t *testing.T) {
		p, err := newProfileService(newStore(), nil).CreateProfile(ctx, "u1", "alice", " ")
		require.NoError(t, err)
		assert.Equal(t, "alice", p.DisplayName)
	})

	t.Run("existing profile is kept", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", Username: "alice", DisplayName: "Al", Points: 120, League: league.Silver})

		p, err := newProfileService(store, nil).CreateProfile(ctx, "u1", "alice2", "Other")
		require.NoError(t, err)
		assert.Equal(t, int64(120), p.Points)
		assert.Equal(t, "Al", p.DisplayName)
		assert.Equal(t, int64(120), loadProfile(t, store, "u1").Points)
	})

	t.Run("invalid input", func(t *testing.T) {
		svc := newProfileService(newStore(), nil)

		_, err := svc.CreateProfile(ctx, "", "alice", "")
		assert.ErrorIs(t, err, model.ErrUnauthenticated)

		_, err = svc.CreateProfile(ctx, "u1", "", "")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestProfile_Lookups(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u2", Username: "bob"})
	putProfile(t, store, model.Profile{ID: "u1", Username: "alice", Points: 7})
	putProfile(t, store, model.Profile{ID: "u3", Username: "alice"})
	svc := newProfileService(store, nil)

	p, err := svc.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	p, err = svc.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, int64(7), p.Points)

	_, err = svc.GetByUsername(ctx, "carol")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetByUsername(ctx, "")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestProfile_UpdateDisplayName(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	putProfile(t, store, model.Profile{ID: "u1", Username: "alice", DisplayName: "Alice", Points: 40})
	svc := newProfileService(store, nil)

	require.NoError(t, svc.UpdateDisplayName(ctx, "u1", "Queen Alice"))
	p := loadProfile(t, store, "u1")
	assert.Equal(t, "Queen Alice", p.DisplayName)
	assert.Equal(t, int64(40), p.Points)

	assert.ErrorIs(t, svc.UpdateDisplayName(ctx, "u1", ""), model.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateDisplayName(ctx, "missing", "x"), model.ErrNotFound)
	assert.ErrorIs(t, svc.UpdateDisplayName(ctx, "", "x"), model.ErrUnauthenticated)
}

func TestProfile_AttemptQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("awarded answer updates leaderboard", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", Points: 95, League: league.Bronze})
		putQuestion(t, store, model.Question{ID: "q1", Correct: "b"})

		board := &mocks.LeaderboardStore{}
		board.On("SetPoints", mock.Anything, "u1", int64(105)).Return(nil).Once()

		res, err := newProfileService(store, board).AttemptQuestion(ctx, "u1", "q1", "b")
		require.NoError(t, err)
		assert.Equal(t, model.AttemptResult{Correct: true, Awarded: true, Points: 105, League: league.Silver}, res)
		board.AssertExpectations(t)
	})

	t.Run("wrong answer leaves leaderboard alone", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", Points: 95, League: league.Bronze})
		putQuestion(t, store, model.Question{ID: "q1", Correct: "b"})

		board := &mocks.LeaderboardStore{}

		res, err := newProfileService(store, board).AttemptQuestion(ctx, "u1", "q1", "c")
		require.NoError(t, err)
		assert.False(t, res.Correct)
		board.AssertNotCalled(t, "SetPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("leaderboard failure does not fail the attempt", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", League: league.Bronze})
		putQuestion(t, store, model.Question{ID: "q1", Correct: "b"})

		board := &mocks.LeaderboardStore{}
		board.On("SetPoints", mock.Anything, "u1", int64(10)).Return(assert.AnError).Once()

		res, err := newProfileService(store, board).AttemptQuestion(ctx, "u1", "q1", "b")
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.Points)
		assert.Equal(t, int64(10), loadProfile(t, store, "u1").Points)
	})

	t.Run("ledger error is returned", func(t *testing.T) {
		_, err := newProfileService(newStore(), nil).AttemptQuestion(ctx, "u1", "q1", "b")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestProfile_Leaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		standings, err := newProfileService(newStore(), nil).Leaderboard(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, standings)
	})

	t.Run("resolves usernames", func(t *testing.T) {
		store := newStore()
		putProfile(t, store, model.Profile{ID: "u1", Username: "alice", Points: 300})
		putProfile(t, store, model.Profile{ID: "u2", Username: "bob", Points: 20})

		board := &mocks.LeaderboardStore{}
		board.On("Top", mock.Anything, int64(DefaultLeaderboardSize)).Return([]model.Standing{
			{UserID: "u1", Points: 300, Rank: 1},
			{UserID: "u2", Points: 20, Rank: 2},
			{UserID: "ghost", Points: 10, Rank: 3},
		}, nil).Once()

		standings, err := newProfileService(store, board).Leaderboard(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []model.Standing{
			{UserID: "u1", Username: "alice", Points: 300, Rank: 1},
			{UserID: "u2", Username: "bob", Points: 20, Rank: 2},
			{UserID: "ghost", Points: 10, Rank: 3},
		}, standings)
	})

	t.Run("limit is capped", func(t *testing.T) {
		board := &mocks.LeaderboardStore{}
		board.On("Top", mock.Anything, int64(MaxLeaderboardSize)).Return([]model.Standing{}, nil).Once()

		standings, err := newProfileService(newStore(), board).Leaderboard(ctx, 1_000_000)
		require.NoError(t, err)
		assert.Empty(t, standings)
		board.AssertExpectations(t)
	})

	t.Run("projection error", func(t *testing.T) {
		board := &mocks.LeaderboardStore{}
		board.On("Top", mock.Anything, int64(3)).Return(nil, assert.AnError).Once()

		_, err := newProfileService(newStore(), board).Leaderboard(ctx, 3)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
