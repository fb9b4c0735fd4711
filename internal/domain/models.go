package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionsPerQuestion is the number of choices every question carries.
const OptionsPerQuestion = 4

// Question models an MCQ question whose answer matches exactly one option.
type Question struct {
	Prompt  string   `json:"question" yaml:"question"`
	Options []string `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer"`
}

// HasOption reports whether choice is one of the question's options.
func (q Question) HasOption(choice string) bool {
	for _, opt := range q.Options {
		if opt == choice {
			return true
		}
	}
	return false
}

// Bank is the full set of questions available to sessions.
type Bank struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

// ValidateBank checks every question in the bank.
func ValidateBank(questions []Question) error {
	if len(questions) == 0 {
		return ErrBankEmpty
	}
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrBankMalformed, i+1, err)
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("expected %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("blank option")
		}
		if _, ok := seen[opt]; ok {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
	}
	if !q.HasOption(q.Answer) {
		return fmt.Errorf("answer %q matches no option", q.Answer)
	}
	return nil
}

// OutcomeKind classifies how a question was resolved.
type OutcomeKind string

const (
	OutcomeCorrect  OutcomeKind = "correct"
	OutcomeWrong    OutcomeKind = "wrong"
	OutcomeTimedOut OutcomeKind = "timed_out"
)

// Outcome summarizes the resolution of a single question.
type Outcome struct {
	Kind          OutcomeKind `json:"outcome"`
	Chosen        string      `json:"chosen,omitempty"`
	CorrectAnswer string      `json:"correctAnswer"`
	Score         int         `json:"score"`
}

// Message is the feedback line shown to the player.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeCorrect:
		return "Correct!"
	case OutcomeTimedOut:
		return "Time's up!"
	default:
		return "Wrong! → " + o.CorrectAnswer
	}
}

// Summary is the final result of a completed session.
type Summary struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NewSummary computes the percentage, which is 0 for an empty session.
func NewSummary(score, total int) Summary {
	var perc float64
	if total > 0 {
		perc = float64(score) / float64(total) * 100
	}
	return Summary{Score: score, Total: total, Percentage: perc}
}

// HistoryTimeLayout is the timestamp layout used in history lines.
const HistoryTimeLayout = "2006-01-02 15:04"

// HistoryRecord is one appended line of the history log.
type HistoryRecord struct {
	Timestamp  time.Time
	Score      int
	Total      int
	Percentage float64
}

func NewHistoryRecord(summary Summary, at time.Time) HistoryRecord {
	return HistoryRecord{
		Timestamp:  at,
		Score:      summary.Score,
		Total:      summary.Total,
		Percentage: summary.Percentage,
	}
}

// Line renders the record as `<timestamp> | <score>/<total> (<percentage>%)`.
func (r HistoryRecord) Line() string {
	return fmt.Sprintf("%s | %d/%d (%.1f%%)", r.Timestamp.Format(HistoryTimeLayout), r.Score, r.Total, r.Percentage)
}
