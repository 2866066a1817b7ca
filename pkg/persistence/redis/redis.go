package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixTransfer    = "waves:transfer:"
	keySchemaVersion     = "waves:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Index set for listing (Redis doesn't support prefix iteration natively)
	keySetTransfers = "waves:transfers:index"

	operationTimeout = 5 * time.Second
)

// RedisJournal is an ITransferJournal backed by Redis, for deployments where
// several clients share one journal.
type RedisJournal struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is prepended to every key, e.g. "myapp:" gives
	// "myapp:waves:transfer:<id>"
	KeyPrefix string
}

// NewRedisJournal connects to Redis and validates the schema version.
func NewRedisJournal(cfg *RedisConfig, logger *zap.Logger) (*RedisJournal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rj := &RedisJournal{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rj.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis transfer journal initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rj, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisJournal) prefixKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisJournal) transferKey(id string) string {
	return r.prefixKey(keyPrefixTransfer + id)
}

// initSchema initializes or validates the schema version
func (r *RedisJournal) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

// SaveTransfer stores the record and indexes its id in one transaction
func (r *RedisJournal) SaveTransfer(record *persistence.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	data, err := persistence.MarshalTransferRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TransferRecord: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.transferKey(record.ID), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetTransfers), record.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save TransferRecord: %w", err)
	}

	return nil
}

// LoadTransfer retrieves a record by id
func (r *RedisJournal) LoadTransfer(id string) (*persistence.TransferRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("transfer journal is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.transferKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load TransferRecord: %w", err)
	}

	record, err := persistence.UnmarshalTransferRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal TransferRecord: %w", err)
	}

	return record, nil
}

// ListTransfers returns all indexed records sorted by creation time
func (r *RedisJournal) ListTransfers() ([]*persistence.TransferRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("transfer journal is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	indexKey := r.prefixKey(keySetTransfers)
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer ids: %w", err)
	}

	records := []*persistence.TransferRecord{}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.transferKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TransferRecords: %w", err)
	}

	for i, val := range values {
		if val == nil {
			// Key was in index but doesn't exist - clean up index
			r.client.SRem(ctx, indexKey, ids[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for TransferRecord", "key", keys[i])
			continue
		}

		record, err := persistence.UnmarshalTransferRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal TransferRecord, skipping",
				"key", keys[i], "error", err)
			continue
		}

		records = append(records, record)
	}

	persistence.SortTransferRecords(records)
	return records, nil
}

// DeleteTransfer removes a record and its index entry
func (r *RedisJournal) DeleteTransfer(id string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.transferKey(id))
	pipe.SRem(ctx, r.prefixKey(keySetTransfers), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete TransferRecord: %w", err)
	}
	return nil
}

// Close shuts down the Redis client
func (r *RedisJournal) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil // Already closed, idempotent
	}
	r.closed = true

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis transfer journal closed")
	return nil
}

// HealthCheck pings Redis
func (r *RedisJournal) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Compile-time check to ensure RedisJournal implements ITransferJournal
var _ persistence.ITransferJournal = (*RedisJournal)(nil)
