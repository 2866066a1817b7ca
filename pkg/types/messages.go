package types

import (
	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
)

// TransferPayload is the JSON body POSTed to /assets/broadcast/transfer.
type TransferPayload struct {
	AssetId         string `json:"assetId"`
	SenderPublicKey string `json:"senderPublicKey"`
	Recipient       string `json:"recipient"`
	Fee             uint64 `json:"fee"`
	FeeAssetId      string `json:"feeAssetId"`
	Amount          uint64 `json:"amount"`
	Attachment      string `json:"attachment"` // Base58 of the attachment bytes
	Timestamp       uint64 `json:"timestamp"`
	Signature       string `json:"signature"` // Base58 of the 64-byte signature
}

// NewTransferPayload assembles the broadcast body for tx and its signature.
func NewTransferPayload(tx *TransferTransaction, signature []byte) *TransferPayload {
	return &TransferPayload{
		AssetId:         string(tx.AmountAssetId),
		SenderPublicKey: string(tx.SenderPublicKey),
		Recipient:       string(tx.Recipient),
		Fee:             tx.Fee,
		FeeAssetId:      string(tx.FeeAssetId),
		Amount:          tx.Amount,
		Attachment:      base58.Encode(tx.Attachment),
		Timestamp:       tx.Timestamp,
		Signature:       base58.Encode(signature),
	}
}

// BroadcastResponse is the subset of the node's broadcast reply we inspect.
type BroadcastResponse struct {
	ID     string `json:"id"`
	Type   int    `json:"type"`
	Sender string `json:"sender"`
}

// AssetBalance is one record of a balance query response.
type AssetBalance struct {
	AssetId  string `json:"assetId"`
	Balance  uint64 `json:"balance"`
	Quantity uint64 `json:"quantity"`
}

// BalancesResponse is the body returned by /assets/balance/{address}.
type BalancesResponse struct {
	Address  string         `json:"address"`
	Balances []AssetBalance `json:"balances"`
}
