// Package rates maintains the exchange-rate snapshot: a background fetcher
// pulls current USD-based rates from an external provider and stores them in
// redis, where the currency endpoints read them.
package rates

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ratesKey     = "rates:usd"
	updatedAtKey = "rates:updated_at"
)

// RedisStore keeps the latest rates snapshot in a redis hash keyed by
// currency code, plus the time the snapshot was taken. Writers replace the
// whole snapshot atomically; readers always see a complete one.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save replaces the current snapshot with the given rates.
func (s *RedisStore) Save(ctx context.Context, rates map[string]float64, at time.Time) error {
	fields := make(map[string]any, len(rates))
	for code, value := range rates {
		fields[code] = value
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, ratesKey)
		pipe.HSet(ctx, ratesKey, fields)
		pipe.Set(ctx, updatedAtKey, at.UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

// Rates returns the current snapshot. An empty map means no snapshot has
// been stored yet.
func (s *RedisStore) Rates(ctx context.Context) (map[string]float64, error) {
	raw, err := s.client.HGetAll(ctx, ratesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	rates := make(map[string]float64, len(raw))
	for code, value := range raw {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt rate for %s: %w", code, err)
		}
		rates[code] = v
	}
	return rates, nil
}

// UpdatedAt returns the time of the last successful snapshot, or the zero
// time when no snapshot exists.
func (s *RedisStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	value, err := s.client.Get(ctx, updatedAtKey).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("redis error: %w", err)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp: %w", err)
	}
	return t, nil
}
