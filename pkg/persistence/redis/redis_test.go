package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence/journaltest"
)

// getTestRedisAddress returns the Redis address for testing.
// Uses REDIS_TEST_ADDRESS env var if set, otherwise defaults to localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// requireRedis skips the test if Redis is not available. Each journal gets a
// unique key prefix on DB 15 so runs do not see each other's records.
func requireRedis(t *testing.T) *RedisJournal {
	t.Helper()

	cfg := &RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15,
		KeyPrefix: fmt.Sprintf("test-%s:", uuid.NewString()),
	}

	rj, err := NewRedisJournal(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
		return nil
	}

	t.Cleanup(func() { cleanupRedis(t, cfg) })
	return rj
}

// cleanupRedis removes every key written under the test's prefix
func cleanupRedis(t *testing.T, cfg *RedisConfig) {
	t.Helper()

	rj, err := NewRedisJournal(cfg, zaptest.NewLogger(t))
	if err != nil {
		return
	}
	defer func() { _ = rj.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keys, err := rj.client.Keys(ctx, cfg.KeyPrefix+"*").Result()
	if err == nil && len(keys) > 0 {
		rj.client.Del(ctx, keys...)
	}
}

func TestRedisJournal(t *testing.T) {
	journaltest.Run(t, func(t *testing.T) persistence.ITransferJournal {
		return requireRedis(t)
	})
}

func TestRedisJournal_ListCleansStaleIndexEntries(t *testing.T) {
	rj := requireRedis(t)
	defer func() { _ = rj.Close() }()

	require.NoError(t, rj.SaveTransfer(journaltest.NewRecord("kept", 1)))

	ctx := context.Background()
	require.NoError(t, rj.client.SAdd(ctx, rj.prefixKey(keySetTransfers), "stale").Err())

	records, err := rj.ListTransfers()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].ID)

	isMember, err := rj.client.SIsMember(ctx, rj.prefixKey(keySetTransfers), "stale").Result()
	require.NoError(t, err)
	assert.False(t, isMember)
}

func TestNewRedisJournal_InvalidConfig(t *testing.T) {
	l := zaptest.NewLogger(t)

	_, err := NewRedisJournal(nil, l)
	require.ErrorContains(t, err, "redis config cannot be nil")

	_, err = NewRedisJournal(&RedisConfig{}, l)
	require.ErrorContains(t, err, "redis address cannot be empty")
}
