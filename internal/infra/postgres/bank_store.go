package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizshow/internal/domain"
)

// BankStore loads and saves question banks in the questions table.
type BankStore struct {
	pool *pgxpool.Pool
}

func NewBankStore(pool *pgxpool.Pool) *BankStore {
	return &BankStore{pool: pool}
}

const selectQuestions = `
SELECT round, id, kind, prompt, answer, blank, explanation, sample_answer
FROM questions
WHERE bank = $1
ORDER BY round, position`

func (s *BankStore) LoadBank(ctx context.Context, name string) (domain.Bank, error) {
	bank := domain.Bank{Name: name}
	err := s.pool.QueryRow(ctx, `SELECT title FROM banks WHERE name=$1`, name).Scan(&bank.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bank{}, fmt.Errorf("bank %q: %w", name, domain.ErrBankNotFound)
		}
		return domain.Bank{}, fmt.Errorf("load bank: %w", err)
	}

	rows, err := s.pool.Query(ctx, selectQuestions, name)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			round int16
			rec   domain.QuestionRecord
		)
		if err := rows.Scan(&round, &rec.ID, &rec.Kind, &rec.Prompt, &rec.Answer, &rec.Blank, &rec.Explanation, &rec.SampleAnswer); err != nil {
			return domain.Bank{}, fmt.Errorf("scan question: %w", err)
		}
		if round < 1 || round > domain.RoundCount {
			return domain.Bank{}, fmt.Errorf("question %d: round %d: %w", rec.ID, round, domain.ErrInvalidBank)
		}
		q, err := rec.Question()
		if err != nil {
			return domain.Bank{}, err
		}
		bank.Rounds[round-1] = append(bank.Rounds[round-1], q)
	}
	if err := rows.Err(); err != nil {
		return domain.Bank{}, fmt.Errorf("load questions: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

// SaveBank replaces every question of bank.Name in one transaction.
func (s *BankStore) SaveBank(ctx context.Context, bank domain.Bank) error {
	if err := bank.Validate(); err != nil {
		return err
	}
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM questions WHERE bank=$1`, bank.Name)
		batch.Queue(`
INSERT INTO banks (name, title, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET title = EXCLUDED.title, updated_at = now()`, bank.Name, bank.Title)
		for i, qs := range bank.Rounds {
			for pos, q := range qs {
				rec := domain.RecordOf(q)
				batch.Queue(`
INSERT INTO questions (bank, round, position, id, kind, prompt, answer, blank, explanation, sample_answer)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
					bank.Name, int16(i+1), int16(pos), rec.ID, rec.Kind, rec.Prompt,
					rec.Answer, rec.Blank, rec.Explanation, rec.SampleAnswer)
			}
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("save bank %q: %w", bank.Name, err)
			}
		}
		return results.Close()
	})
}

// ListBanks returns the stored bank names.
func (s *BankStore) ListBanks(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM banks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan bank name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
