package postgres

import (
	"context"
	"fmt"

	"cs-quiz/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// HistoryRecorder mirrors history records into the quiz_history table.
type HistoryRecorder struct {
	pool *pgxpool.Pool
}

func NewHistoryRecorder(pool *pgxpool.Pool) *HistoryRecorder {
	return &HistoryRecorder{pool: pool}
}

func (h *HistoryRecorder) Record(ctx context.Context, rec domain.HistoryRecord) error {
	_, err := h.pool.Exec(ctx,
		`INSERT INTO quiz_history (finished_at, score, total, percentage) VALUES ($1, $2, $3, $4)`,
		rec.Timestamp, rec.Score, rec.Total, rec.Percentage)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}
