package app_test

import (
	"fmt"

	"cs-quiz/internal/domain"
)

func makeQuestions(n int) []domain.Question {
	questions := make([]domain.Question, n)
	for i := range questions {
		answer := fmt.Sprintf("answer %d", i)
		questions[i] = domain.Question{
			Prompt:  fmt.Sprintf("Question %d?", i),
			Options: []string{answer, fmt.Sprintf("decoy %d-a", i), fmt.Sprintf("decoy %d-b", i), fmt.Sprintf("decoy %d-c", i)},
			Answer:  answer,
		}
	}
	return questions
}

func wrongOption(q domain.Question) string {
	for _, opt := range q.Options {
		if opt != q.Answer {
			return opt
		}
	}
	return ""
}
