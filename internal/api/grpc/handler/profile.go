package handler

import (
	"context"

	"github.com/dtroode/trivia-server/internal/api/grpc/rpc"
	"github.com/dtroode/trivia-server/internal/logger"
	"github.com/dtroode/trivia-server/internal/model"
)

// ProfileService defines business operations on player profiles.
type ProfileService interface {
	CreateProfile(ctx context.Context, userID, username, displayName string) (model.Profile, error)
	GetByID(ctx context.Context, userID string) (model.Profile, error)
	GetByUsername(ctx context.Context, username string) (model.Profile, error)
	UpdateDisplayName(ctx context.Context, userID, name string) error
	AttemptQuestion(ctx context.Context, userID, questionID, option string) (model.AttemptResult, error)
	Leaderboard(ctx context.Context, limit int64) ([]model.Standing, error)
}

// Profile handles gRPC endpoints for profiles.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ rpc.ProfilesServer = (*Profile)(nil)

// NewProfile creates a new Profile handler.
func NewProfile(profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// CreateProfile creates the caller's profile, or returns it if it already exists.
func (h *Profile) CreateProfile(ctx context.Context, req *rpc.CreateProfileRequest) (*rpc.ProfileResponse, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	profile, err := h.profileService.CreateProfile(ctx, principal.UserID, req.Username, req.DisplayName)
	if err != nil {
		h.logger.Error("Profile handler: create profile failed", "user_id", principal.UserID, "error", err.Error())
		return nil, handleError(err)
	}

	return &rpc.ProfileResponse{Profile: toRPCProfile(profile)}, nil
}

func (h *Profile) GetProfile(ctx context.Context, req *rpc.GetProfileRequest) (*rpc.ProfileResponse, error) {
	if _, err := principalFromContext(ctx, h.contextManager); err != nil {
		return nil, err
	}

	profile, err := h.profileService.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, handleError(err)
	}

	return &rpc.ProfileResponse{Profile: toRPCProfile(profile)}, nil
}

func (h *Profile) GetMyProfile(ctx context.Context, _ *rpc.Empty) (*rpc.ProfileResponse, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	profile, err := h.profileService.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, handleError(err)
	}

	return &rpc.ProfileResponse{Profile: toRPCProfile(profile)}, nil
}

func (h *Profile) UpdateDisplayName(ctx context.Context, req *rpc.UpdateDisplayNameRequest) (*rpc.Empty, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	if err := h.profileService.UpdateDisplayName(ctx, principal.UserID, req.DisplayName); err != nil {
		return nil, handleError(err)
	}

	return &rpc.Empty{}, nil
}

// AttemptQuestion scores the caller's answer to a question.
func (h *Profile) AttemptQuestion(ctx context.Context, req *rpc.AttemptQuestionRequest) (*rpc.AttemptQuestionResponse, error) {
	principal, err := principalFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	result, err := h.profileService.AttemptQuestion(ctx, principal.UserID, req.QuestionID, req.Option)
	if err != nil {
		h.logger.Debug("Profile handler: attempt failed",
			"user_id", principal.UserID,
			"question_id", req.QuestionID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &rpc.AttemptQuestionResponse{
		Correct: result.Correct,
		Awarded: result.Awarded,
		Points:  result.Points,
		League:  result.League,
	}, nil
}

func (h *Profile) Leaderboard(ctx context.Context, req *rpc.LeaderboardRequest) (*rpc.LeaderboardResponse, error) {
	if _, err := principalFromContext(ctx, h.contextManager); err != nil {
		return nil, err
	}

	standings, err := h.profileService.Leaderboard(ctx, req.Limit)
	if err != nil {
		return nil, handleError(err)
	}

	resp := &rpc.LeaderboardResponse{Standings: make([]rpc.Standing, 0, len(standings))}
	for _, s := range standings {
		resp.Standings = append(resp.Standings, rpc.Standing{
			Rank:     s.Rank,
			UserID:   s.UserID,
			Username: s.Username,
			Points:   s.Points,
		})
	}

	return resp, nil
}

func principalFromContext(ctx context.Context, cm model.ContextManager) (model.Principal, error) {
	principal, ok := cm.GetPrincipalFromContext(ctx)
	if !ok {
		return model.Principal{}, handleError(model.ErrUnauthenticated)
	}
	return principal, nil
}

func toRPCProfile(p model.Profile) rpc.Profile {
	p.Normalize()
	return rpc.Profile{
		UserID:          p.ID,
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		Points:          p.Points,
		League:          p.League,
		PostedQuestions: p.PostedQuestions,
		LikedQuestions:  p.LikedQuestions,
		SavedQuestions:  p.SavedQuestions,
	}
}
