package memory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
)

// MemoryJournal is an in-memory implementation of ITransferJournal.
//
// All records are lost when the process exits, which suits one-shot CLI runs
// and tests. Thread-safe using sync.RWMutex for concurrent access.
// Deep copies records to prevent external mutation.
type MemoryJournal struct {
	mu sync.RWMutex

	// Transfers: transaction id -> record
	transfers map[string]*persistence.TransferRecord

	closed bool
}

// NewMemoryJournal creates a new in-memory journal.
func NewMemoryJournal(logger *zap.Logger) *MemoryJournal {
	logger.Sugar().Debugw("Using in-memory transfer journal; records are not kept across runs")

	return &MemoryJournal{
		transfers: make(map[string]*persistence.TransferRecord),
	}
}

// SaveTransfer inserts or replaces a record.
func (m *MemoryJournal) SaveTransfer(record *persistence.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	m.transfers[record.ID] = record.Clone()
	return nil
}

// LoadTransfer retrieves a record by id.
func (m *MemoryJournal) LoadTransfer(id string) (*persistence.TransferRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("transfer journal is closed")
	}

	record, exists := m.transfers[id]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return record.Clone(), nil
}

// ListTransfers returns all records sorted by creation time.
func (m *MemoryJournal) ListTransfers() ([]*persistence.TransferRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("transfer journal is closed")
	}

	result := make([]*persistence.TransferRecord, 0, len(m.transfers))
	for _, record := range m.transfers {
		result = append(result, record.Clone())
	}
	persistence.SortTransferRecords(result)

	return result, nil
}

// DeleteTransfer removes a record.
func (m *MemoryJournal) DeleteTransfer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("transfer journal is closed")
	}

	delete(m.transfers, id)
	return nil
}

// Close marks the journal closed and drops its records.
func (m *MemoryJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.transfers = nil
	return nil
}

// HealthCheck always succeeds until Close is called.
func (m *MemoryJournal) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("transfer journal is closed")
	}
	return nil
}

// Compile-time check to ensure MemoryJournal implements ITransferJournal
var _ persistence.ITransferJournal = (*MemoryJournal)(nil)

