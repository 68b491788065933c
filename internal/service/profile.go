package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtroode/trivia-server/internal/docstore"
	"github.com/dtroode/trivia-server/internal/league"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

const (
	// DefaultLeaderboardSize is used when Leaderboard is called without a positive limit.
	DefaultLeaderboardSize = 10
	// MaxLeaderboardSize caps the number of standings a single call returns.
	MaxLeaderboardSize = 100
)

type Profile struct {
	store       docstore.Store
	ledger      *Ledger
	leaderboard model.LeaderboardStore
	logger      *logger.Logger
}

// NewProfile creates the profile service. leaderboard may be nil, which
// disables the points projection.
func NewProfile(
	store docstore.Store,
	ledger *Ledger,
	leaderboard model.LeaderboardStore,
	logger *logger.Logger,
) *Profile {
	return &Profile{
		store:       store,
		ledger:      ledger,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// CreateProfile creates a zeroed profile for userID. An existing profile is
// returned unchanged.
func (s *Profile) CreateProfile(ctx context.Context, userID, username, displayName string) (model.Profile, error) {
	if userID == "" {
		return model.Profile{}, model.ErrUnauthenticated
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return model.Profile{}, fmt.Errorf("%w: username is required", model.ErrInvalidInput)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}

	type outcome struct {
		profile model.Profile
		created bool
	}

	res, err := docstore.Transact(ctx, s.store, func(ctx context.Context, tx docstore.Tx) (outcome, error) {
		snap, err := tx.Get(ctx, profileRef(userID))
		if err != nil {
			return outcome{}, err
		}
		if snap.Exists() {
			existing, err := decodeProfile(snap)
			return outcome{profile: existing}, err
		}

		profile := model.Profile{
			ID:          userID,
			DisplayName: displayName,
			Username:    username,
			Points:      0,
			League:      league.Classify(0),
		}
		profile.Normalize()

		return outcome{profile: profile, created: true}, tx.Create(profileRef(userID), profile)
	})
	if err != nil {
		err = translateStoreError(err)
		s.logger.Error("Profile: failed to create profile", "user_id", userID, "error", err)
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	if res.created {
		s.logger.Info("Profile: profile created", "user_id", userID, "username", username)
		s.setPoints(ctx, userID, 0)
	} else {
		s.logger.Debug("Profile: profile already exists", "user_id", userID)
	}

	return res.profile, nil
}

func (s *Profile) GetByID(ctx context.Context, userID string) (model.Profile, error) {
	if userID == "" {
		return model.Profile{}, fmt.Errorf("%w: user id is required", model.ErrInvalidInput)
	}

	snap, err := s.store.Get(ctx, profileRef(userID))
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", translateStoreError(err))
	}

	profile, err := decodeProfile(snap)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", translateStoreError(err))
	}

	return profile, nil
}

// GetByUsername returns the first profile with username in store order.
func (s *Profile) GetByUsername(ctx context.Context, username string) (model.Profile, error) {
	if username == "" {
		return model.Profile{}, fmt.Errorf("%w: username is required", model.ErrInvalidInput)
	}

	q := docstore.Query{Collection: model.ProfilesCollection, Limit: 1}.Where("username", username)
	snaps, err := s.store.Query(ctx, q)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to query profiles: %w", translateStoreError(err))
	}
	if len(snaps) == 0 {
		return model.Profile{}, fmt.Errorf("%w: no profile with username %q", model.ErrNotFound, username)
	}

	profile, err := decodeProfile(snaps[0])
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to decode profile: %w", translateStoreError(err))
	}

	return profile, nil
}

func (s *Profile) UpdateDisplayName(ctx context.Context, userID, name string) error {
	if userID == "" {
		return model.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: display name is required", model.ErrInvalidInput)
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		if _, err := getProfile(ctx, tx, userID); err != nil {
			return err
		}
		return tx.Update(profileRef(userID), docstore.Update{Path: "displayName", Value: name})
	})
	if err != nil {
		return fmt.Errorf("failed to update display name: %w", translateStoreError(err))
	}

	s.logger.Debug("Profile: display name updated", "user_id", userID)
	return nil
}

// AttemptQuestion scores an answer through the ledger and mirrors the new
// point total into the leaderboard.
func (s *Profile) AttemptQuestion(ctx context.Context, userID, questionID, option string) (model.AttemptResult, error) {
	result, err := s.ledger.AwardPoints(ctx, userID, questionID, option)
	if err != nil {
		return model.AttemptResult{}, err
	}

	if result.Awarded {
		s.setPoints(ctx, userID, result.Points)
	}

	return result, nil
}

// Leaderboard returns the top players by points. It is empty when no
// leaderboard is configured.
func (s *Profile) Leaderboard(ctx context.Context, limit int64) ([]model.Standing, error) {
	if s.leaderboard == nil {
		return []model.Standing{}, nil
	}
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardSize
	case limit > MaxLeaderboardSize:
		limit = MaxLeaderboardSize
	}

	standings, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		s.logger.Error("Profile: failed to read leaderboard", "error", err)
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	for i := range standings {
		snap, err := s.store.Get(ctx, profileRef(standings[i].UserID))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve leaderboard profile: %w", translateStoreError(err))
		}
		if profile, err := decodeProfile(snap); err == nil {
			standings[i].Username = profile.Username
		}
	}

	return standings, nil
}

func (s *Profile) setPoints(ctx context.Context, userID string, points int64) {
	if s.leaderboard == nil {
		return
	}
	if err := s.leaderboard.SetPoints(ctx, userID, points); err != nil {
		s.logger.Warn("Profile: failed to update leaderboard", "user_id", userID, "error", err)
	}
}
