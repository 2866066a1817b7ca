package persistence

import (
	"encoding/json"
	"fmt"
)

// MarshalTransferRecord serializes a TransferRecord to JSON bytes.
func MarshalTransferRecord(tr *TransferRecord) ([]byte, error) {
	if tr == nil {
		return nil, fmt.Errorf("cannot marshal nil TransferRecord")
	}

	data, err := json.Marshal(tr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal TransferRecord to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalTransferRecord deserializes a TransferRecord from JSON bytes.
func UnmarshalTransferRecord(data []byte) (*TransferRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var tr TransferRecord
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to TransferRecord: %w", err)
	}

	return &tr, nil
}
