package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"quizshow/internal/domain"
)

// BankLoader fetches a question bank from its backing store (file, database).
type BankLoader interface {
	LoadBank(ctx context.Context, name string) (domain.Bank, error)
}

// BankRepository caches whole banks in Redis as JSON and falls back to a loader on miss.
// Stored as: SET bank:{name} {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	logger zerolog.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
}

type cachedBank struct {
	Name   string                                     `json:"name"`
	Title  string                                     `json:"title"`
	Rounds [domain.RoundCount][]domain.QuestionRecord `json:"rounds"`
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration, logger zerolog.Logger) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, name string) (domain.Bank, error) {
	if bank, ok := r.fromCache(ctx, name); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.fromCache(ctx, name); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, name)
		if err != nil {
			return domain.Bank{}, err
		}
		if err := r.store(ctx, bank, name); err != nil {
			r.logger.Warn().Err(err).Str("bank", name).Msg("cache bank in redis")
		}
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) fromCache(ctx context.Context, name string) (domain.Bank, bool) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("bank", name).Msg("read bank from redis")
		}
		return domain.Bank{}, false
	}
	bank, err := decodeBank(data)
	if err != nil {
		// Corrupt entries are dropped and reloaded.
		r.logger.Warn().Err(err).Str("bank", name).Msg("discard cached bank")
		_ = r.client.Del(ctx, r.key(name)).Err()
		return domain.Bank{}, false
	}
	return bank, true
}

func (r *BankRepository) store(ctx context.Context, bank domain.Bank, name string) error {
	entry := cachedBank{Name: bank.Name, Title: bank.Title}
	for i, qs := range bank.Rounds {
		for _, q := range qs {
			entry.Rounds[i] = append(entry.Rounds[i], domain.RecordOf(q))
		}
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	return r.client.Set(ctx, r.key(name), data, r.ttlWithJitter()).Err()
}

func decodeBank(data []byte) (domain.Bank, error) {
	var entry cachedBank
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	bank := domain.Bank{Name: entry.Name, Title: entry.Title}
	for i, records := range entry.Rounds {
		for _, rec := range records {
			q, err := rec.Question()
			if err != nil {
				return domain.Bank{}, err
			}
			bank.Rounds[i] = append(bank.Rounds[i], q)
		}
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

func (r *BankRepository) key(name string) string {
	return "bank:" + name
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
