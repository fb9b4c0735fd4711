package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cs-quiz/internal/domain"
	"cs-quiz/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) (domain.Bank, error)
}

// HistoryRecorder appends completed session results somewhere durable.
type HistoryRecorder interface {
	Record(ctx context.Context, rec domain.HistoryRecord) error
}

// SessionRepository tracks sessions owned by live connections.
type SessionRepository interface {
	Add(session *Session)
	Get(id string) (*Session, bool)
	Remove(id string)
}

// Options tunes session timing and length presets.
type Options struct {
	QuestionTime time.Duration
	AnswerDelay  time.Duration
	TimeoutDelay time.Duration
	Lengths      []int
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	bank    BankRepository
	history HistoryRecorder
	opts    Options
	logger  *zap.Logger
	now     func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuizService(bank BankRepository, history HistoryRecorder, opts Options, logger *zap.Logger) *QuizService {
	return NewQuizServiceWithRand(bank, history, opts, logger, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewQuizServiceWithRand is used by tests for deterministic sampling and timestamps.
func NewQuizServiceWithRand(bank BankRepository, history HistoryRecorder, opts Options, logger *zap.Logger, rnd *rand.Rand, now func() time.Time) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		bank:    bank,
		history: history,
		opts:    opts,
		logger:  logger,
		now:     now,
		rnd:     rnd,
	}
}

func (s *QuizService) Options() Options {
	return s.opts
}

// LengthOptions lists the quiz lengths selectable for the current bank.
func (s *QuizService) LengthOptions(ctx context.Context) ([]LengthOption, error) {
	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return nil, err
	}
	return LengthOptions(len(bank.Questions), s.opts.Lengths), nil
}

// Start samples n questions from the bank into a new session.
func (s *QuizService) Start(ctx context.Context, n int) (*Session, error) {
	bank, err := s.bank.GetBank(ctx)
	if err != nil {
		return nil, err
	}

	s.rndMu.Lock()
	questions, err := Sample(bank.Questions, n, s.rnd)
	s.rndMu.Unlock()
	if err != nil {
		return nil, err
	}

	session := NewSessionWithClock(uuid.NewString(), questions, s.opts.QuestionTime, s.now)
	metrics.SessionStarted()
	s.logger.Debug("session started",
		zap.String("session", session.ID()),
		zap.Int("questions", n),
		zap.Int("bank", len(bank.Questions)))
	return session, nil
}

// Submit answers the current question and counts the outcome.
func (s *QuizService) Submit(session *Session, choice string) (domain.Outcome, error) {
	out, err := session.Submit(choice)
	if err != nil {
		return out, err
	}
	metrics.Answer(string(out.Kind))
	return out, nil
}

// Tick advances the countdown and counts a timeout when it expires.
func (s *QuizService) Tick(session *Session) (domain.Outcome, bool) {
	out, expired := session.Tick()
	if expired {
		metrics.Answer(string(out.Kind))
	}
	return out, expired
}

// Finish reports the final score and appends it to history. History
// failures never affect the returned summary.
func (s *QuizService) Finish(ctx context.Context, session *Session) domain.Summary {
	summary := session.Summary()
	metrics.SessionCompleted()

	if s.history == nil {
		return summary
	}
	rec := domain.NewHistoryRecord(summary, s.now())
	if err := s.history.Record(ctx, rec); err != nil {
		metrics.HistoryWriteFailed()
		s.logger.Debug("history append failed", zap.String("session", session.ID()), zap.Error(err))
	}
	return summary
}

// MultiRecorder fans a record out to every recorder and joins their errors.
type MultiRecorder []HistoryRecorder

func (m MultiRecorder) Record(ctx context.Context, rec domain.HistoryRecord) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", r, err))
		}
	}
	return errors.Join(errs...)
}
