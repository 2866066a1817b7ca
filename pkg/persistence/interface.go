package persistence

// ITransferJournal records every signed transfer and what the node said about
// it, so a broadcast can be audited or reconciled after a restart.
// All implementations must be thread-safe; the transfer service writes to the
// journal from concurrent requests.
type ITransferJournal interface {
	// SaveTransfer inserts or replaces the record with the same ID.
	// Returns error only on storage failure.
	SaveTransfer(record *TransferRecord) error

	// LoadTransfer retrieves a record by transaction id.
	// Returns nil if the record doesn't exist, error only on storage failure.
	LoadTransfer(id string) (*TransferRecord, error)

	// ListTransfers returns all records sorted by CreatedAt (ascending).
	// Returns empty slice if there are none, error only on storage failure.
	ListTransfers() ([]*TransferRecord, error)

	// DeleteTransfer removes a record.
	// Idempotent - returns nil if the record doesn't exist.
	DeleteTransfer(id string) error

	// Close cleanly shuts down the journal.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations return errors.
	Close() error

	// HealthCheck verifies the journal is operational.
	HealthCheck() error
}
