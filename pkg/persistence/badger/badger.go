package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
)

// Key prefixes for namespacing
const (
	keyPrefixTransfer    = "transfer:"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerJournal is a durable ITransferJournal backed by Badger.
type BadgerJournal struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerJournal opens (or creates) a journal at dataPath with SyncWrites
// enabled. A background goroutine runs value log garbage collection.
func NewBadgerJournal(dataPath string, logger *zap.Logger) (*BadgerJournal, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bj := &BadgerJournal{
		db:     db,
		logger: logger,
	}

	if err := bj.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bj.gcCancel = cancel
	bj.gcWg.Add(1)
	go bj.runGC(ctx)

	logger.Sugar().Infow("Badger transfer journal initialized", "path", absPath)

	return bj, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerJournal) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic garbage collection in the background
func (b *BadgerJournal) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && err != badgerdb.ErrNoRewrite {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func transferKey(id string) []byte {
	return []byte(keyPrefixTransfer + id)
}

// SaveTransfer inserts or replaces a record
func (b *BadgerJournal) SaveTransfer(record *persistence.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	data, err := persistence.MarshalTransferRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TransferRecord: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(transferKey(record.ID), data)
	})
}

// LoadTransfer retrieves a record by id
func (b *BadgerJournal) LoadTransfer(id string) (*persistence.TransferRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("transfer journal is closed")
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(transferKey(id))
		if err == badgerdb.ErrKeyNotFound {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...) // Copy value
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load TransferRecord: %w", err)
	}

	if data == nil {
		return nil, nil
	}

	record, err := persistence.UnmarshalTransferRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal TransferRecord: %w", err)
	}

	return record, nil
}

// ListTransfers returns all records sorted by creation time
func (b *BadgerJournal) ListTransfers() ([]*persistence.TransferRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("transfer journal is closed")
	}

	records := []*persistence.TransferRecord{}

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixTransfer)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var data []byte
			err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...) // Copy value
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			record, err := persistence.UnmarshalTransferRecord(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal TransferRecord, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			records = append(records, record)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list TransferRecords: %w", err)
	}

	persistence.SortTransferRecords(records)
	return records, nil
}

// DeleteTransfer removes a record
func (b *BadgerJournal) DeleteTransfer(id string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(transferKey(id))
	})
}

// Close shuts down the journal
func (b *BadgerJournal) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil // Already closed, idempotent
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger transfer journal closed")
	return nil
}

// HealthCheck verifies the database is readable
func (b *BadgerJournal) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err == badgerdb.ErrKeyNotFound {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}

// Compile-time check to ensure BadgerJournal implements ITransferJournal
var _ persistence.ITransferJournal = (*BadgerJournal)(nil)
