package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cs-quiz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBankErrorMessage(t *testing.T) {
	malformed := fmt.Errorf("%w: unexpected EOF", domain.ErrBankMalformed)
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"missing", fmt.Errorf("%w: /tmp/questions.json", domain.ErrBankNotFound), "questions.json not found!\n\nPut it in the same folder."},
		{"empty", domain.ErrBankEmpty, "questions.json is empty!"},
		{"malformed", malformed, "Cannot read file:\n" + malformed.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bankErrorMessage("questions.json", tc.err))
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quiz:\n  base_dir: "+dir+"\n  questions: bank.yaml\n"), 0o644))

	opts := &rootOptions{configPath: path, history: "scores.log"}
	cfg, err := opts.loadConfig(true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bank.yaml"), cfg.QuestionsPath())
	assert.Equal(t, filepath.Join(dir, "scores.log"), cfg.HistoryPath())
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &rootOptions{configPath: filepath.Join(t.TempDir(), "nope.yaml")}

	cfg, err := opts.loadConfig(false)
	require.NoError(t, err)
	assert.Equal(t, "questions.json", cfg.Quiz.Questions)

	_, err = opts.loadConfig(true)
	assert.Error(t, err)
}

func TestBuildDepsFileBackend(t *testing.T) {
	dir := t.TempDir()
	opts := &rootOptions{configPath: filepath.Join(dir, "none.yaml")}
	cfg, err := opts.loadConfig(false)
	require.NoError(t, err)
	cfg.Quiz.BaseDir = dir

	d, err := buildDeps(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer d.Close()

	_, err = d.service().LengthOptions(context.Background())
	require.ErrorIs(t, err, domain.ErrBankNotFound)
	assert.Equal(t, "questions.json not found!\n\nPut it in the same folder.", bankErrorMessage(d.source, err))
}
