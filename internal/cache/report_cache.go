package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"interviewlab/internal/model"
)

// ReportCache handles Redis caching of feedback reports so a post-brief
// fetch does not re-run analysis or hit Mongo.
type ReportCache interface {
	Set(ctx context.Context, report *model.FeedbackReport) error
	Get(ctx context.Context, sessionID string) (*model.FeedbackReport, error)
	Delete(ctx context.Context, sessionID string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache.
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *reportCache) key(sessionID string) string {
	return "report:" + sessionID
}

func (c *reportCache) Set(ctx context.Context, report *model.FeedbackReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(report.SessionID), data, c.ttl).Err()
}

func (c *reportCache) Get(ctx context.Context, sessionID string) (*model.FeedbackReport, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.FeedbackReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
