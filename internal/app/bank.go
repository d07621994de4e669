package app

import (
	"context"
	"fmt"

	"quizshow/internal/domain"
)

// BankRepository supplies question banks by name (file, cache, database).
type BankRepository interface {
	GetBank(ctx context.Context, name string) (domain.Bank, error)
}

// LoadBank fetches name from repo and checks it before play.
func LoadBank(ctx context.Context, repo BankRepository, name string) (domain.Bank, error) {
	bank, err := repo.GetBank(ctx, name)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load bank %q: %w", name, err)
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, fmt.Errorf("load bank %q: %w", name, err)
	}
	return bank, nil
}
