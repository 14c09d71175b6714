package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/portfolio-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "email_verification_rate_limit:"

// maxCASRetries bounds optimistic-transaction retries under write contention
// on the same user's record.
const maxCASRetries = 3

// RateLimitStore keeps per-user rate-limit records in Redis. Every write
// refreshes the TTL to the full window, making the window rolling: it closes
// one hour after the *last* admitted request, not the first.
type RateLimitStore struct {
	client *redis.Client
}

func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Update runs fn against the user's current record (nil when absent) inside a
// WATCH-guarded transaction and persists the returned record with a fresh
// window TTL. If fn returns a nil record, nothing is written and fn's error,
// if any, is propagated. Concurrent writers to the same key restart the
// transaction, closing the read-modify-write race on admission.
func (s *RateLimitStore) Update(ctx context.Context, userID string, fn func(*domain.RateLimitRecord) (*domain.RateLimitRecord, error)) error {
	key := rateLimitKeyPrefix + userID

	txn := func(tx *redis.Tx) error {
		var current *domain.RateLimitRecord
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// first request in the window
		case err != nil:
			return fmt.Errorf("get rate limit record: %w", err)
		default:
			var r domain.RateLimitRecord
			if err := json.Unmarshal(data, &r); err != nil {
				return fmt.Errorf("unmarshal rate limit record: %w", err)
			}
			current = &r
		}

		next, err := fn(current)
		if err != nil || next == nil {
			return err
		}
		out, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal rate limit record: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, domain.RateLimitTTL)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxCASRetries; i++ {
		err = s.client.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("rate limit update contention: %w", err)
}

// Delete removes the user's record. Missing records are not an error.
func (s *RateLimitStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, rateLimitKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("delete rate limit record: %w", err)
	}
	return nil
}
