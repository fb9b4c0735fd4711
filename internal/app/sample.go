package app

import (
	"fmt"
	"math/rand"
	"sort"

	"cs-quiz/internal/domain"
)

// Sample draws n questions without replacement and returns them shuffled.
// Requesting the whole bank returns every question in random order.
func Sample(questions []domain.Question, n int, rnd *rand.Rand) ([]domain.Question, error) {
	if n <= 0 || n > len(questions) {
		return nil, fmt.Errorf("%w: %d (bank has %d questions)", domain.ErrInvalidLength, n, len(questions))
	}

	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)
	// partial Fisher-Yates: the first n slots end up uniformly sampled and ordered
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n:n], nil
}

// LengthOption is one selectable quiz length.
type LengthOption struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	All   bool   `json:"all"`
}

// LengthOptions lists the presets smaller than the bank followed by the
// option taking every question.
func LengthOptions(bankSize int, presets []int) []LengthOption {
	if bankSize <= 0 {
		return nil
	}
	sorted := append([]int(nil), presets...)
	sort.Ints(sorted)

	options := make([]LengthOption, 0, len(sorted)+1)
	last := 0
	for _, n := range sorted {
		if n <= 0 || n >= bankSize || n == last {
			continue
		}
		options = append(options, LengthOption{Label: fmt.Sprintf("%d Questions", n), Count: n})
		last = n
	}
	return append(options, LengthOption{
		Label: fmt.Sprintf("All %d Questions", bankSize),
		Count: bankSize,
		All:   true,
	})
}
