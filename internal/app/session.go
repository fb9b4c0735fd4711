package app

import (
	"sync"
	"time"

	"cs-quiz/internal/domain"
)

// Phase is the position of a session in its linear flow.
type Phase string

const (
	PhaseShowing  Phase = "showing"
	PhaseFeedback Phase = "feedback"
	PhaseComplete Phase = "complete"
)

// Session drives one quiz run: Showing(i) -> Feedback(i) -> Showing(i+1)
// ... -> Complete. The countdown is measured in ticks of one second.
type Session struct {
	id           string
	questionTime int
	startedAt    time.Time

	mu        sync.Mutex
	questions []domain.Question
	index     int
	score     int
	remaining int
	phase     Phase
	last      *domain.Outcome
}

// NewSession starts at the first question, or completes immediately when
// there are none.
func NewSession(id string, questions []domain.Question, questionTime time.Duration) *Session {
	return NewSessionWithClock(id, questions, questionTime, time.Now)
}

// NewSessionWithClock allows deterministic start timestamps in tests.
func NewSessionWithClock(id string, questions []domain.Question, questionTime time.Duration, now func() time.Time) *Session {
	seconds := int(questionTime / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	s := &Session{
		id:           id,
		questionTime: seconds,
		startedAt:    now(),
		questions:    questions,
		phase:        PhaseShowing,
		remaining:    seconds,
	}
	if len(questions) == 0 {
		s.phase = PhaseComplete
		s.remaining = 0
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Current returns the question being shown or awaiting feedback.
func (s *Session) Current() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseComplete {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

// Tick consumes one second of the countdown. When it reaches zero the
// question resolves as timed out and the returned flag is true.
func (s *Session) Tick() (domain.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseShowing {
		return domain.Outcome{}, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return domain.Outcome{}, false
	}
	return s.resolveLocked(domain.OutcomeTimedOut, ""), true
}

// Submit checks choice against the current question. An empty choice is
// rejected without touching the countdown, score or position.
func (s *Session) Submit(choice string) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseShowing {
		return domain.Outcome{}, domain.ErrNotAccepting
	}
	if choice == "" {
		return domain.Outcome{}, domain.ErrNoChoice
	}
	q := s.questions[s.index]
	if !q.HasOption(choice) {
		return domain.Outcome{}, domain.ErrUnknownOption
	}
	if choice == q.Answer {
		s.score++
		return s.resolveLocked(domain.OutcomeCorrect, choice), nil
	}
	return s.resolveLocked(domain.OutcomeWrong, choice), nil
}

func (s *Session) resolveLocked(kind domain.OutcomeKind, choice string) domain.Outcome {
	out := domain.Outcome{
		Kind:          kind,
		Chosen:        choice,
		CorrectAnswer: s.questions[s.index].Answer,
		Score:         s.score,
	}
	s.phase = PhaseFeedback
	s.last = &out
	return out
}

// Advance leaves the feedback phase. It reports whether another question
// is now showing; false means the session is complete.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseFeedback {
		return s.phase == PhaseShowing
	}
	s.index++
	s.last = nil
	if s.index >= len(s.questions) {
		s.phase = PhaseComplete
		s.remaining = 0
		return false
	}
	s.phase = PhaseShowing
	s.remaining = s.questionTime
	return true
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Total() int {
	return len(s.questions)
}

// Summary reports the score over the full session length.
func (s *Session) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewSummary(s.score, len(s.questions))
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID        string          `json:"sessionId"`
	Phase     Phase           `json:"phase"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Score     int             `json:"score"`
	Remaining int             `json:"remaining"`
	Question  *QuestionView   `json:"question,omitempty"`
	Last      *domain.Outcome `json:"last,omitempty"`
	StartedAt time.Time       `json:"startedAt"`
}

// QuestionView hides the answer of the question being asked.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:        s.id,
		Phase:     s.phase,
		Index:     s.index,
		Total:     len(s.questions),
		Score:     s.score,
		Remaining: s.remaining,
		StartedAt: s.startedAt,
	}
	if s.phase != PhaseComplete {
		q := s.questions[s.index]
		snap.Question = &QuestionView{Prompt: q.Prompt, Options: append([]string(nil), q.Options...)}
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}
