package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizshow/internal/domain"
)

// BankLoader fetches a question bank from its backing store (file, database).
type BankLoader interface {
	LoadBank(ctx context.Context, name string) (domain.Bank, error)
}

// BankRepository keeps loaded banks for a TTL so repeated GetBank calls for the
// same name, as in `bank show` followed by `bank export` against one supply,
// share one load.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, name string) (domain.Bank, error) {
	if bank, ok := r.lookup(name); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		if bank, ok := r.lookup(name); ok {
			return bank, nil
		}

		bank, err := r.loader.LoadBank(ctx, name)
		if err != nil {
			return domain.Bank{}, err
		}

		r.mu.Lock()
		r.cache[name] = cachedBank{
			bank:      bank,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) lookup(name string) (domain.Bank, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[name]
	if !ok || !entry.expiresAt.After(now) {
		return domain.Bank{}, false
	}
	return entry.bank, true
}

// StaticBankLoader serves banks from a map (tests, demos).
type StaticBankLoader struct {
	banks map[string]domain.Bank
}

func NewStaticBankLoader(banks map[string]domain.Bank) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, name string) (domain.Bank, error) {
	if bank, ok := l.banks[name]; ok {
		return bank, nil
	}
	return domain.Bank{}, domain.ErrBankNotFound
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
