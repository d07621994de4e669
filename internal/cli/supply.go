package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"quizshow/internal/app"
	"quizshow/internal/config"
	"quizshow/internal/infra/file"
	"quizshow/internal/infra/memory"
	"quizshow/internal/infra/postgres"
	rediscache "quizshow/internal/infra/redis"
)

const recentResults = 10

// supply is the storage chain built from config: a bank loader for the
// configured source behind a Redis or in-process cache, and a result store.
type supply struct {
	banks   app.BankRepository
	results app.ResultStore
	closers []func()
}

func (s *supply) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func buildSupply(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*supply, error) {
	s := &supply{}

	var loader memory.BankLoader
	switch cfg.Bank.Source {
	case config.SourceFile:
		loader = file.NewBankLoader(cfg.Bank.Dir)
	case config.SourcePostgres:
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		loader = postgres.NewBankStore(pool)
	default:
		loader = file.NewBankLoader("")
	}

	ttl := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.banks = rediscache.NewBankRepository(client, loader, config.TTLDuration(cfg.Redis.TTL, ttl), logger)
		s.results = rediscache.NewResultStore(client, 50, config.TTLDuration(cfg.Redis.ResultsTTL, 30*24*time.Hour))
	} else {
		s.banks = memory.NewBankRepository(loader, ttl)
		s.results = memory.NewResultStore(50)
	}

	logger.Debug().
		Str("source", cfg.Bank.Source).
		Bool("redis", cfg.Redis.Addr != "").
		Msg("storage ready")
	return s, nil
}

// recent returns a lookup of the latest results for bank, for results screens.
func (s *supply) recent(ctx context.Context, bank string, logger zerolog.Logger) func() []app.Result {
	return func() []app.Result {
		results, err := s.results.RecentResults(ctx, bank, recentResults)
		if err != nil {
			logger.Warn().Err(err).Msg("read recent results")
			return nil
		}
		return results
	}
}
