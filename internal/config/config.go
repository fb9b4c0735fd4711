package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Quiz struct {
		BaseDir      string `yaml:"base_dir"`
		Questions    string `yaml:"questions"`
		History      string `yaml:"history"`
		QuestionTime string `yaml:"question_time"`
		AnswerDelay  string `yaml:"answer_delay"`
		TimeoutDelay string `yaml:"timeout_delay"`
		Lengths      []int  `yaml:"lengths"`
		BankTTL      string `yaml:"bank_ttl"`
	} `yaml:"quiz"`
	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	} `yaml:"log"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL  string `yaml:"url"`
		Bank string `yaml:"bank"`
	} `yaml:"postgres"`
}

const (
	DefaultQuestionsFile = "questions.json"
	DefaultHistoryFile   = "high_scores.txt"
	DefaultQuestionTime  = 30 * time.Second
	DefaultAnswerDelay   = 2500 * time.Millisecond
	DefaultTimeoutDelay  = 2 * time.Second
	DefaultBankTTL       = 5 * time.Minute
)

// DefaultLengths are the quiz length presets offered below the "all" option.
var DefaultLengths = []int{10, 20, 30, 40, 50}

// Default returns a config that reproduces the standalone desktop behavior.
func Default() Config {
	cfg := Config{}
	cfg.Quiz.Questions = DefaultQuestionsFile
	cfg.Quiz.History = DefaultHistoryFile
	cfg.Quiz.Lengths = append([]int(nil), DefaultLengths...)
	cfg.Log.Level = "info"
	cfg.Log.Encoding = "console"
	cfg.Server.Port = "8080"
	cfg.Postgres.Bank = "default"
	return cfg
}

// Load reads YAML config from path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Quiz.Lengths) == 0 {
		cfg.Quiz.Lengths = append([]int(nil), DefaultLengths...)
	}
	return cfg, nil
}

// LoadOptional is Load, except a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// BaseDir is where relative quiz files live: the configured base_dir, or
// the directory holding the executable.
func (c Config) BaseDir() string {
	if c.Quiz.BaseDir != "" {
		return c.Quiz.BaseDir
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// QuestionsPath resolves the question bank file.
func (c Config) QuestionsPath() string {
	return Resolve(c.BaseDir(), c.Quiz.Questions)
}

// HistoryPath resolves the history log file.
func (c Config) HistoryPath() string {
	return Resolve(c.BaseDir(), c.Quiz.History)
}

// Resolve joins relative paths onto base.
func Resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
