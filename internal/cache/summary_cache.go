package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"journal-backend/internal/app"
)

// SummaryCache keeps range-summary responses in Redis. Keys carry a per-user
// version counter; invalidation bumps the counter so every cached window for
// that user goes stale at once and ages out via TTL.
type SummaryCache struct {
	client     *redisv9.Client
	summaryTTL time.Duration
}

func NewSummaryCache(client *redisv9.Client, summaryTTL time.Duration) *SummaryCache {
	if summaryTTL <= 0 {
		summaryTTL = 60 * time.Second
	}
	return &SummaryCache{
		client:     client,
		summaryTTL: summaryTTL,
	}
}

func (c *SummaryCache) GetRangeSummary(ctx context.Context, userID uint, start, end time.Time) (*app.RangeSummary, bool, error) {
	key, err := c.summaryKey(ctx, userID, start, end)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get summary failed: %w", err)
	}

	var summary app.RangeSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached summary failed: %w", err)
	}
	return &summary, true, nil
}

func (c *SummaryCache) SetRangeSummary(ctx context.Context, userID uint, start, end time.Time, summary *app.RangeSummary) error {
	key, err := c.summaryKey(ctx, userID, start, end)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary cache failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.summaryTTL).Err(); err != nil {
		return fmt.Errorf("redis set summary failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Incr(ctx, c.versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis bump summary version failed: %w", err)
	}
	return nil
}

func (c *SummaryCache) summaryKey(ctx context.Context, userID uint, start, end time.Time) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey(userID)).Int64()
	if err != nil && err != redisv9.Nil {
		return "", fmt.Errorf("redis get summary version failed: %w", err)
	}
	return fmt.Sprintf("journal:summary:%d:%d:%s:%s",
		userID,
		version,
		start.Format(app.DateLayout),
		end.Format(app.DateLayout),
	), nil
}

func (c *SummaryCache) versionKey(userID uint) string {
	return fmt.Sprintf("journal:summary:ver:%d", userID)
}
