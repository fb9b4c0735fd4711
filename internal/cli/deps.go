package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cs-quiz/internal/app"
	"cs-quiz/internal/config"
	"cs-quiz/internal/infra/file"
	"cs-quiz/internal/infra/memory"
	pgstore "cs-quiz/internal/infra/postgres"
	redisstore "cs-quiz/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// deps holds the infrastructure shared by the play and serve commands.
type deps struct {
	cfg     config.Config
	logger  *zap.Logger
	redis   *redis.Client
	pool    *pgxpool.Pool
	bank    app.BankRepository
	history app.HistoryRecorder
	// source names the bank in user-facing messages.
	source string
}

func buildDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*deps, error) {
	d := &deps{cfg: cfg, logger: logger}

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.pool = pool
	}

	var loader memory.BankLoader
	if d.pool != nil {
		loader = pgstore.NewBankLoader(d.pool, cfg.Postgres.Bank)
		d.source = cfg.Postgres.Bank
	} else {
		path := cfg.QuestionsPath()
		loader = file.NewBankLoader(path)
		d.source = filepath.Base(path)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.BankTTL, config.DefaultBankTTL)
	if d.redis != nil {
		name := strings.TrimSuffix(d.source, filepath.Ext(d.source))
		d.bank = redisstore.NewBankRepository(d.redis, loader, name, bankTTL)
	} else {
		d.bank = memory.NewBankRepository(loader, bankTTL)
	}

	recorders := app.MultiRecorder{file.NewHistoryRecorder(cfg.HistoryPath())}
	if d.redis != nil {
		recorders = append(recorders, redisstore.NewHistoryRecorder(d.redis, redisstore.DefaultHistoryKey))
	}
	if d.pool != nil {
		recorders = append(recorders, pgstore.NewHistoryRecorder(d.pool))
	}
	d.history = recorders

	logger.Debug("dependencies ready",
		zap.String("bank", d.source),
		zap.String("history", cfg.HistoryPath()),
		zap.Bool("redis", d.redis != nil),
		zap.Bool("postgres", d.pool != nil))
	return d, nil
}

func (d *deps) service() *app.QuizService {
	cfg := d.cfg
	opts := app.Options{
		QuestionTime: config.TTLDuration(cfg.Quiz.QuestionTime, config.DefaultQuestionTime),
		AnswerDelay:  config.TTLDuration(cfg.Quiz.AnswerDelay, config.DefaultAnswerDelay),
		TimeoutDelay: config.TTLDuration(cfg.Quiz.TimeoutDelay, config.DefaultTimeoutDelay),
		Lengths:      cfg.Quiz.Lengths,
	}
	return app.NewQuizService(d.bank, d.history, opts, d.logger)
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
