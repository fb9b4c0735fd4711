package redis

import (
	"context"
	"fmt"

	"cs-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultHistoryKey is the list that mirrors the history log.
const DefaultHistoryKey = "quiz:history"

// HistoryRecorder mirrors history lines into a Redis list: RPUSH {key} {line}
type HistoryRecorder struct {
	client *redis.Client
	key    string
}

func NewHistoryRecorder(client *redis.Client, key string) *HistoryRecorder {
	if key == "" {
		key = DefaultHistoryKey
	}
	return &HistoryRecorder{client: client, key: key}
}

func (h *HistoryRecorder) Record(ctx context.Context, rec domain.HistoryRecord) error {
	if err := h.client.RPush(ctx, h.key, rec.Line()).Err(); err != nil {
		return fmt.Errorf("redis history: %w", err)
	}
	return nil
}
