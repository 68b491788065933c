// Package leaderboard projects profile points into a Redis sorted set.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/trivia-server/internal/model"
)

// DefaultKey is the sorted set holding user ids scored by points.
const DefaultKey = "leaderboard:points"

// SortedSet is the subset of the Redis client the leaderboard needs.
type SortedSet interface {
	ZAddArgs(ctx context.Context, key string, args redis.ZAddArgs) *redis.IntCmd
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
}

// Redis keeps one member per user id scored by the user's points.
type Redis struct {
	client SortedSet
	key    string
}

var _ model.LeaderboardStore = (*Redis)(nil)

// New creates a leaderboard over client using key, or DefaultKey when empty.
func New(client SortedSet, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{
		client: client,
		key:    key,
	}
}

// Dial connects to Redis at addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// SetPoints records the point total of userID. Points never decrease, so a
// total lower than the stored score is ignored.
func (r *Redis) SetPoints(ctx context.Context, userID string, points int64) error {
	err := r.client.ZAddArgs(ctx, r.key, redis.ZAddArgs{
		GT: true,
		Members: []redis.Z{{
			Score:  float64(points),
			Member: userID,
		}},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to set points for %s: %w", userID, err)
	}
	return nil
}

// Top returns the limit highest scored users, best first, ranked from 1.
func (r *Redis) Top(ctx context.Context, limit int64) ([]model.Standing, error) {
	if limit <= 0 {
		return []model.Standing{}, nil
	}

	results, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	standings := make([]model.Standing, 0, len(results))
	for i, z := range results {
		userID, ok := z.Member.(string)
		if !ok {
			continue
		}
		standings = append(standings, model.Standing{
			UserID: userID,
			Points: int64(z.Score),
			Rank:   int64(i) + 1,
		})
	}

	return standings, nil
}
