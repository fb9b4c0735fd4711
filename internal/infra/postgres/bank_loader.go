package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cs-quiz/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads a question bank stored as JSONB in Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
	name string
}

func NewBankLoader(pool *pgxpool.Pool, name string) *BankLoader {
	return &BankLoader{pool: pool, name: name}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, l.name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, l.name)
	}
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("%w: %v", domain.ErrBankMalformed, err)
	}
	if err := domain.ValidateBank(questions); err != nil {
		return domain.Bank{}, err
	}
	return domain.Bank{Name: l.name, Questions: questions}, nil
}
