package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cs-quiz/internal/app"
	"cs-quiz/internal/domain"
	"cs-quiz/internal/infra/file"
	"cs-quiz/internal/infra/memory"
	pgstore "cs-quiz/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var finishedAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func TestFileBackedQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	questionsPath := filepath.Join(dir, "questions.json")
	historyPath := filepath.Join(dir, "high_scores.txt")
	writeBank(t, questionsPath, sampleQuestions(60))

	repo := memory.NewBankRepository(file.NewBankLoader(questionsPath), time.Minute)
	service := newService(repo, file.NewHistoryRecorder(historyPath))

	lengths, err := service.LengthOptions(ctx)
	if err != nil {
		t.Fatalf("length options: %v", err)
	}
	if got := lengths[len(lengths)-1].Label; got != "All 60 Questions" {
		t.Fatalf("expected all option last, got %q", got)
	}

	summary := playAllCorrect(t, ctx, service, 10)
	if summary.Score != 10 || summary.Total != 10 || summary.Percentage != 100 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	raw, err := os.ReadFile(historyPath)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if got, want := string(raw), "2024-05-01 09:30 | 10/10 (100.0%)\n"; got != want {
		t.Fatalf("history = %q, want %q", got, want)
	}

	// a second run appends
	playAllCorrect(t, ctx, service, 10)
	raw, _ = os.ReadFile(historyPath)
	if lines := strings.Count(string(raw), "\n"); lines != 2 {
		t.Fatalf("expected 2 history lines, got %d", lines)
	}
}

func TestFileBackedQuizMissingBank(t *testing.T) {
	dir := t.TempDir()
	repo := memory.NewBankRepository(file.NewBankLoader(filepath.Join(dir, "questions.json")), time.Minute)
	service := newService(repo, file.NewHistoryRecorder(filepath.Join(dir, "high_scores.txt")))

	if _, err := service.Start(context.Background(), 10); err == nil {
		t.Fatalf("expected missing bank error")
	}
	if _, err := os.Stat(filepath.Join(dir, "high_scores.txt")); !os.IsNotExist(err) {
		t.Fatalf("history must not be created without a session, stat err=%v", err)
	}
}

func TestPostgresBankAndHistory(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, cleanup := startPostgres(t, ctx)
	defer cleanup()

	if _, err := pgstore.Migrate(ctx, pgURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	data, err := json.Marshal(sampleQuestions(12))
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if err := pgstore.SeedBank(ctx, pgURL, "default", data); err != nil {
		t.Fatalf("seed bank: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	repo := memory.NewBankRepository(pgstore.NewBankLoader(pool, "default"), time.Minute)
	service := newService(repo, pgstore.NewHistoryRecorder(pool))

	summary := playAllCorrect(t, ctx, service, 12)
	if summary.Score != 12 || summary.Total != 12 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	var score, total int
	if err := pool.QueryRow(ctx, `SELECT score, total FROM quiz_history ORDER BY id DESC LIMIT 1`).Scan(&score, &total); err != nil {
		t.Fatalf("query history: %v", err)
	}
	if score != 12 || total != 12 {
		t.Fatalf("expected 12/12 in quiz_history, got %d/%d", score, total)
	}

	missing := pgstore.NewBankLoader(pool, "nope")
	if _, err := missing.LoadBank(ctx); err == nil {
		t.Fatalf("expected missing bank error")
	}
}

func playAllCorrect(t *testing.T, ctx context.Context, service *app.QuizService, n int) domain.Summary {
	t.Helper()
	session, err := service.Start(ctx, n)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for {
		q, ok := session.Current()
		if !ok {
			t.Fatalf("session completed early")
		}
		out, err := service.Submit(session, q.Answer)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if out.Kind != domain.OutcomeCorrect {
			t.Fatalf("expected correct outcome, got %s", out.Kind)
		}
		if !session.Advance() {
			break
		}
	}
	return service.Finish(ctx, session)
}

func newService(repo app.BankRepository, history app.HistoryRecorder) *app.QuizService {
	opts := app.Options{
		QuestionTime: 30 * time.Second,
		AnswerDelay:  2500 * time.Millisecond,
		TimeoutDelay: 2 * time.Second,
		Lengths:      []int{10, 20, 30, 40, 50},
	}
	now := func() time.Time { return finishedAt }
	return app.NewQuizServiceWithRand(repo, history, opts, nil, rand.New(rand.NewSource(7)), now)
}

func sampleQuestions(n int) []domain.Question {
	questions := make([]domain.Question, n)
	for i := range questions {
		answer := fmt.Sprintf("answer %d", i)
		questions[i] = domain.Question{
			Prompt:  fmt.Sprintf("Question %d?", i),
			Options: []string{fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i), answer, fmt.Sprintf("c%d", i)},
			Answer:  answer,
		}
	}
	return questions
}

func writeBank(t *testing.T, path string, questions []domain.Question) {
	t.Helper()
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		t.Fatalf("marshal bank: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
