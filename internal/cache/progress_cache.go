package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"interviewlab/internal/model"
)

// ProgressCache handles Redis storage of rolling trainee profiles.
type ProgressCache interface {
	GetProfile(ctx context.Context, traineeID string) (*model.TraineeProfile, error)
	SetProfile(ctx context.Context, profile *model.TraineeProfile) error
}

type progressCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProgressCache creates a new progress cache.
func NewProgressCache(client *redis.Client) ProgressCache {
	return &progressCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *progressCache) key(traineeID string) string {
	return fmt.Sprintf("trainee:%s:profile", traineeID)
}

func (c *progressCache) GetProfile(ctx context.Context, traineeID string) (*model.TraineeProfile, error) {
	data, err := c.client.Get(ctx, c.key(traineeID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile model.TraineeProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *progressCache) SetProfile(ctx context.Context, profile *model.TraineeProfile) error {
	profile.UpdatedAt = time.Now()
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(profile.TraineeID), data, c.ttl).Err()
}
