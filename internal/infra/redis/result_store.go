package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizshow/internal/app"
)

// ResultStore keeps completed games in a capped Redis list per bank.
// Stored as: LPUSH results:{bank} {json}; LTRIM 0 capacity-1; EXPIRE ttl
type ResultStore struct {
	client   *redis.Client
	capacity int
	ttl      time.Duration
}

func NewResultStore(client *redis.Client, capacity int, ttl time.Duration) *ResultStore {
	if capacity <= 0 {
		capacity = 50
	}
	return &ResultStore{client: client, capacity: capacity, ttl: ttl}
}

func (s *ResultStore) SaveResult(ctx context.Context, r app.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	key := s.key(r.Bank)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(s.capacity-1))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) RecentResults(ctx context.Context, bank string, limit int) ([]app.Result, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.client.LRange(ctx, s.key(bank), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	results := make([]app.Result, 0, len(raw))
	for _, item := range raw {
		var r app.Result
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			// skip entries written by an incompatible version
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *ResultStore) key(bank string) string {
	return "results:" + bank
}
