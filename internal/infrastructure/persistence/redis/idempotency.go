package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

// Record is a finished response kept for replay.
type Record struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

const pending = "pending"

// IdempotencyStore keeps one entry per (scope, key). An entry is "pending"
// while the first request runs and holds the Record once it completes.
// Keys: idempotency:{scope}:{key}.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func storeKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Reserve claims key for scope. A nil Record with nil error means the caller
// owns the key and must Complete or Release it. A stored Record means the
// request already finished; ErrInFlight means it is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, scope, key string) (*Record, error) {
	k := storeKey(scope, key)
	ok, err := s.client.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.WithCause(err)
	}
	if ok {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired or released between SETNX and GET; try once more.
		return s.reserveAgain(ctx, k)
	}
	if err != nil {
		return nil, apperrors.ErrRedisError.WithCause(err)
	}
	return decode(raw)
}

func (s *IdempotencyStore) reserveAgain(ctx context.Context, k string) (*Record, error) {
	ok, err := s.client.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.WithCause(err)
	}
	if !ok {
		return nil, apperrors.ErrInFlight
	}
	return nil, nil
}

func decode(raw []byte) (*Record, error) {
	if string(raw) == pending {
		return nil, apperrors.ErrInFlight
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.ErrRedisError.WithCause(fmt.Errorf("decode idempotency record: %w", err))
	}
	return &rec, nil
}

// Complete stores the final response for replay.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, storeKey(scope, key), raw, s.ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// Release drops the reservation so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, storeKey(scope, key)).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
