package memory

import (
	"context"
	"sync"

	"cs-quiz/internal/domain"
)

// HistoryRecorder keeps records in memory.
type HistoryRecorder struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
}

func NewHistoryRecorder() *HistoryRecorder {
	return &HistoryRecorder{}
}

func (h *HistoryRecorder) Record(_ context.Context, rec domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

func (h *HistoryRecorder) Records() []domain.HistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.HistoryRecord(nil), h.records...)
}
