// Package journaltest holds the behavior every ITransferJournal backend must
// share, run against each backend from its own tests.
package journaltest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/waves-transfer-go/pkg/persistence"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// NewRecord returns a signed, not yet broadcast record with the given id.
func NewRecord(id string, createdAt int64) *persistence.TransferRecord {
	return &persistence.TransferRecord{
		ID:     id,
		Status: persistence.TransferStatus_Signed,
		Payload: &types.TransferPayload{
			SenderPublicKey: "FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z",
			Recipient:       "3ND7UFHtCTEAdK3HsXw9t78Xm9E77yJZgVE",
			Amount:          100000000,
			Fee:             100000,
			Timestamp:       uint64(createdAt),
			Signature:       "5B8ZjSkCbPwL29vJsQD9bGUo5wgVisks6WgrixG81VgHTL78m9gAwJps85x6j7VCd91in7haj8bNvDXHNkZ6TRTi",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// Run exercises a journal created by newJournal. Every subtest gets a fresh
// journal; ids are unique per subtest so shared backends do not collide.
func Run(t *testing.T, newJournal func(t *testing.T) persistence.ITransferJournal) {
	t.Run("save and load", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		record := NewRecord(uniqueId(t, "save"), 1600000000000)
		require.NoError(t, j.SaveTransfer(record))

		loaded, err := j.LoadTransfer(record.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, record, loaded)
	})

	t.Run("load missing returns nil", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		loaded, err := j.LoadTransfer(uniqueId(t, "missing"))
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("save overwrites status", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		record := NewRecord(uniqueId(t, "update"), 1600000000000)
		require.NoError(t, j.SaveTransfer(record))

		record.Status = persistence.TransferStatus_Rejected
		record.NodeResponse = `{"error":112,"message":"insufficient funds"}`
		record.Error = "node returned status 400"
		record.UpdatedAt = 1600000000900
		require.NoError(t, j.SaveTransfer(record))

		loaded, err := j.LoadTransfer(record.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, persistence.TransferStatus_Rejected, loaded.Status)
		assert.Equal(t, record.NodeResponse, loaded.NodeResponse)
		assert.Equal(t, int64(1600000000900), loaded.UpdatedAt)
	})

	t.Run("save rejects invalid records", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		require.Error(t, j.SaveTransfer(nil))
		require.Error(t, j.SaveTransfer(&persistence.TransferRecord{ID: "no-payload"}))
	})

	t.Run("list sorted by creation time", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		for _, r := range listedRecords(j, t) {
			require.NoError(t, j.DeleteTransfer(r.ID))
		}

		ids := []string{uniqueId(t, "c"), uniqueId(t, "a"), uniqueId(t, "b")}
		created := []int64{3000, 1000, 2000}
		for i := range ids {
			require.NoError(t, j.SaveTransfer(NewRecord(ids[i], created[i])))
		}

		records := listedRecords(j, t)
		require.Len(t, records, 3)
		assert.Equal(t, ids[1], records[0].ID)
		assert.Equal(t, ids[2], records[1].ID)
		assert.Equal(t, ids[0], records[2].ID)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		record := NewRecord(uniqueId(t, "delete"), 1600000000000)
		require.NoError(t, j.SaveTransfer(record))
		require.NoError(t, j.DeleteTransfer(record.ID))
		require.NoError(t, j.DeleteTransfer(record.ID))

		loaded, err := j.LoadTransfer(record.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		record := NewRecord(uniqueId(t, "copy"), 1600000000000)
		require.NoError(t, j.SaveTransfer(record))
		record.Payload.Amount = 1

		loaded, err := j.LoadTransfer(record.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, uint64(100000000), loaded.Payload.Amount)

		loaded.Payload.Amount = 2
		again, err := j.LoadTransfer(record.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(100000000), again.Payload.Amount)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		j := newJournal(t)
		defer func() { _ = j.Close() }()

		prefix := uniqueId(t, "concurrent")
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, j.SaveTransfer(NewRecord(fmt.Sprintf("%s-%d", prefix, i), int64(i))))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 20; i++ {
			loaded, err := j.LoadTransfer(fmt.Sprintf("%s-%d", prefix, i))
			require.NoError(t, err)
			require.NotNil(t, loaded)
		}
	})

	t.Run("health check and close", func(t *testing.T) {
		j := newJournal(t)

		require.NoError(t, j.HealthCheck())
		require.NoError(t, j.Close())
		require.NoError(t, j.Close(), "close is idempotent")

		require.Error(t, j.HealthCheck())
		require.Error(t, j.SaveTransfer(NewRecord(uniqueId(t, "closed"), 1)))
		_, err := j.LoadTransfer("any")
		require.Error(t, err)
		_, err = j.ListTransfers()
		require.Error(t, err)
		require.Error(t, j.DeleteTransfer("any"))
	})
}

func listedRecords(j persistence.ITransferJournal, t *testing.T) []*persistence.TransferRecord {
	t.Helper()
	records, err := j.ListTransfers()
	require.NoError(t, err)
	require.NotNil(t, records)
	return records
}

func uniqueId(t *testing.T, label string) string {
	return fmt.Sprintf("%s-%s", t.Name(), label)
}
