package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOptionalMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Quiz.Questions != DefaultQuestionsFile || cfg.Quiz.History != DefaultHistoryFile {
		t.Fatalf("expected default files, got %q %q", cfg.Quiz.Questions, cfg.Quiz.History)
	}
	if len(cfg.Quiz.Lengths) != len(DefaultLengths) {
		t.Fatalf("expected default lengths, got %v", cfg.Quiz.Lengths)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
quiz:
  base_dir: /srv/quiz
  questions: bank.yaml
  question_time: 15s
  lengths: [5, 15]
redis:
  addr: localhost:6379
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.QuestionsPath(); got != filepath.Join("/srv/quiz", "bank.yaml") {
		t.Fatalf("unexpected questions path %q", got)
	}
	if got := cfg.HistoryPath(); got != filepath.Join("/srv/quiz", DefaultHistoryFile) {
		t.Fatalf("unexpected history path %q", got)
	}
	if d := TTLDuration(cfg.Quiz.QuestionTime, DefaultQuestionTime); d != 15*time.Second {
		t.Fatalf("expected 15s question time, got %v", d)
	}
	if len(cfg.Quiz.Lengths) != 2 || cfg.Quiz.Lengths[1] != 15 {
		t.Fatalf("unexpected lengths %v", cfg.Quiz.Lengths)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis addr %q", cfg.Redis.Addr)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("nonsense", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for invalid input, got %v", d)
	}
}

func TestResolveKeepsAbsolutePaths(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "q.json")
	if got := Resolve("/elsewhere", abs); got != abs {
		t.Fatalf("expected %q, got %q", abs, got)
	}
}
