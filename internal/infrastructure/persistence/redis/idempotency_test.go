package redis

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

func TestStoreKey(t *testing.T) {
	assert.Equal(t, "idempotency:POST /api/rentals:abc", storeKey("POST /api/rentals", "abc"))
}

func TestDecode(t *testing.T) {
	_, err := decode([]byte(pending))
	assert.ErrorIs(t, err, apperrors.ErrInFlight)

	raw, err := json.Marshal(Record{Status: 201, ContentType: "application/json", Body: []byte(`{"success":true}`)})
	require.NoError(t, err)
	rec, err := decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 201, rec.Status)
	assert.JSONEq(t, `{"success":true}`, string(rec.Body))

	_, err = decode([]byte("{not json"))
	assert.Equal(t, apperrors.ErrCodeRedisError, apperrors.GetAppError(err).Code)
}

// TestIdempotencyStore_Redis runs against a live server when REDIS_TEST_ADDR is set.
func TestIdempotencyStore_Redis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	ctx := context.Background()
	store := NewIdempotencyStore(client, time.Minute)
	scope, key := "POST /api/rentals", uuid.NewString()
	t.Cleanup(func() { _ = store.Release(ctx, scope, key) })

	rec, err := store.Reserve(ctx, scope, key)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = store.Reserve(ctx, scope, key)
	assert.ErrorIs(t, err, apperrors.ErrInFlight)

	require.NoError(t, store.Complete(ctx, scope, key, Record{Status: 201, Body: []byte(`{"success":true}`)}))
	rec, err = store.Reserve(ctx, scope, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 201, rec.Status)

	require.NoError(t, store.Release(ctx, scope, key))
	rec, err = store.Reserve(ctx, scope, key)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
