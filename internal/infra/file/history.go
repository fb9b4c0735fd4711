package file

import (
	"context"
	"fmt"
	"os"
	"sync"

	"cs-quiz/internal/domain"
)

// HistoryRecorder appends one line per completed session to a plain-text log.
type HistoryRecorder struct {
	path string
	mu   sync.Mutex
}

func NewHistoryRecorder(path string) *HistoryRecorder {
	return &HistoryRecorder{path: path}
}

func (h *HistoryRecorder) Record(_ context.Context, rec domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if _, err := fmt.Fprintln(f, rec.Line()); err != nil {
		f.Close()
		return fmt.Errorf("append history: %w", err)
	}
	return f.Close()
}
