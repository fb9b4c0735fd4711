package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cs-quiz/internal/domain"
	"gopkg.in/yaml.v3"
)

// BankLoader reads the question bank from a JSON or YAML file.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

func (l *BankLoader) Path() string {
	return l.path
}

func (l *BankLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, l.path)
		}
		return domain.Bank{}, fmt.Errorf("read bank: %w", err)
	}
	questions, err := DecodeQuestions(raw, filepath.Ext(l.path))
	if err != nil {
		return domain.Bank{}, err
	}
	if err := domain.ValidateBank(questions); err != nil {
		return domain.Bank{}, err
	}
	name := strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	return domain.Bank{Name: name, Questions: questions}, nil
}

// DecodeQuestions parses a question list; ext selects YAML (".yaml",
// ".yml") over the default JSON.
func DecodeQuestions(raw []byte, ext string) ([]domain.Question, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.ErrBankEmpty
	}
	var questions []domain.Question
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBankMalformed, err)
		}
	default:
		if err := json.Unmarshal(raw, &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBankMalformed, err)
		}
	}
	if len(questions) == 0 {
		return nil, domain.ErrBankEmpty
	}
	return questions, nil
}
