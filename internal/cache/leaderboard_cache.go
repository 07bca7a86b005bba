package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"interviewlab/internal/model"
)

// LeaderboardCache keeps a per-stage sorted set of each trainee's best
// overall score.
type LeaderboardCache interface {
	RecordScore(ctx context.Context, stageID, traineeID string, overall float64) error
	GetTop(ctx context.Context, stageID string, limit int64) ([]model.LeaderboardEntry, error)
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache.
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func (c *leaderboardCache) key(stageID string) string {
	return fmt.Sprintf("stage:%s:leaderboard", stageID)
}

// RecordScore keeps the trainee's best score for the stage (GT semantics:
// only a higher score replaces the previous one).
func (c *leaderboardCache) RecordScore(ctx context.Context, stageID, traineeID string, overall float64) error {
	return c.client.ZAddGT(ctx, c.key(stageID), redis.Z{
		Score:  overall,
		Member: traineeID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, stageID string, limit int64) ([]model.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(stageID), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(results))
	for i, z := range results {
		traineeID, _ := z.Member.(string)
		entries = append(entries, model.LeaderboardEntry{
			TraineeID: traineeID,
			Score:     z.Score,
			Rank:      i + 1,
		})
	}
	return entries, nil
}
