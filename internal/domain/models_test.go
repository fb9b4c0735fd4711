package domain

import (
	"errors"
	"testing"
	"time"
)

func validQuestion() Question {
	return Question{
		Prompt:  "Who is known as the father of computers?",
		Options: []string{"Charles Babbage", "Alan Turing", "Ada Lovelace", "John von Neumann"},
		Answer:  "Charles Babbage",
	}
}

func TestValidateBank(t *testing.T) {
	if err := ValidateBank(nil); !errors.Is(err, ErrBankEmpty) {
		t.Fatalf("expected empty bank error, got %v", err)
	}
	if err := ValidateBank([]Question{validQuestion()}); err != nil {
		t.Fatalf("expected valid bank, got %v", err)
	}

	cases := map[string]func(q *Question){
		"empty prompt":      func(q *Question) { q.Prompt = "  " },
		"three options":     func(q *Question) { q.Options = q.Options[:3] },
		"blank option":      func(q *Question) { q.Options[1] = "" },
		"duplicate option":  func(q *Question) { q.Options[1] = q.Options[0] },
		"answer not listed": func(q *Question) { q.Answer = "Grace Hopper" },
	}
	for name, mutate := range cases {
		q := validQuestion()
		q.Options = append([]string(nil), q.Options...)
		mutate(&q)
		if err := ValidateBank([]Question{validQuestion(), q}); !errors.Is(err, ErrBankMalformed) {
			t.Fatalf("%s: expected malformed error, got %v", name, err)
		}
	}
}

func TestOutcomeMessage(t *testing.T) {
	if got := (Outcome{Kind: OutcomeCorrect}).Message(); got != "Correct!" {
		t.Fatalf("unexpected correct message %q", got)
	}
	if got := (Outcome{Kind: OutcomeWrong, CorrectAnswer: "1946"}).Message(); got != "Wrong! → 1946" {
		t.Fatalf("unexpected wrong message %q", got)
	}
	if got := (Outcome{Kind: OutcomeTimedOut}).Message(); got != "Time's up!" {
		t.Fatalf("unexpected timeout message %q", got)
	}
}

func TestHistoryRecordLine(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 59, 0, time.UTC)
	rec := NewHistoryRecord(NewSummary(7, 20), at)
	if got, want := rec.Line(), "2024-03-09 14:05 | 7/20 (35.0%)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	empty := NewSummary(0, 0)
	if empty.Percentage != 0 {
		t.Fatalf("expected zero percentage for empty session, got %v", empty.Percentage)
	}
}
