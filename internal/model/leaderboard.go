package model

import "context"

// Standing is one row of the points leaderboard.
type Standing struct {
	UserID   string
	Username string
	Points   int64
	Rank     int64
}

// LeaderboardStore is a read-optimized projection of profile points.
// It may lag behind the profiles it mirrors.
type LeaderboardStore interface {
	SetPoints(ctx context.Context, userID string, points int64) error
	Top(ctx context.Context, limit int64) ([]Standing, error)
}

// OperationRecorder counts ledger operations by outcome.
type OperationRecorder interface {
	RecordOperation(operation, outcome string)
}
