package persistence

import (
	"fmt"
	"sort"

	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// TransferStatus is the lifecycle state of a journaled transfer
type TransferStatus string

const (
	// TransferStatus_Signed means the transfer was signed but not yet sent
	TransferStatus_Signed TransferStatus = "signed"
	// TransferStatus_Broadcast means the node accepted the transfer
	TransferStatus_Broadcast TransferStatus = "broadcast"
	// TransferStatus_Rejected means the node answered with a non-2xx status
	TransferStatus_Rejected TransferStatus = "rejected"
	// TransferStatus_Failed means no answer was received from the node
	TransferStatus_Failed TransferStatus = "failed"
)

// TransferRecord is one journal entry, keyed by transaction id
type TransferRecord struct {
	// ID is the Base58 transaction id
	ID string `json:"id"`

	// Payload is the exact body that was (or would have been) broadcast
	Payload *types.TransferPayload `json:"payload"`

	Status TransferStatus `json:"status"`

	// NodeResponse is the raw body the node returned, if any
	NodeResponse string `json:"nodeResponse,omitempty"`

	// Error describes why the transfer was rejected or failed
	Error string `json:"error,omitempty"`

	// CreatedAt and UpdatedAt are Unix milliseconds
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Validate checks the fields every backend relies on
func (tr *TransferRecord) Validate() error {
	if tr == nil {
		return fmt.Errorf("cannot save nil TransferRecord")
	}
	if tr.ID == "" {
		return fmt.Errorf("transfer record id cannot be empty")
	}
	if tr.Payload == nil {
		return fmt.Errorf("transfer record %s has no payload", tr.ID)
	}
	return nil
}

// Clone returns a deep copy of the record
func (tr *TransferRecord) Clone() *TransferRecord {
	if tr == nil {
		return nil
	}
	clone := *tr
	if tr.Payload != nil {
		payload := *tr.Payload
		clone.Payload = &payload
	}
	return &clone
}

// SortTransferRecords orders records by CreatedAt, then ID, ascending
func SortTransferRecords(records []*TransferRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].ID < records[j].ID
	})
}
