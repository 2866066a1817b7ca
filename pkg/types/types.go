package types

import (
	"bytes"
	"math"

	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
)

// TransferTransactionType is the protocol type byte of an asset transfer.
const TransferTransactionType byte = 4

// Fixed decoded lengths of the Base58 fields of a transfer.
const (
	PublicKeyLength     = 32
	PrivateKeyLength    = 32
	AssetIdLength       = 32
	AddressLength       = 26
	SignatureLength     = 64
	MaxAttachmentLength = math.MaxUint16
)

// PublicKey is a Base58 encoded 32-byte Ed25519 public key.
type PublicKey string

// Bytes decodes the key, requiring exactly PublicKeyLength bytes.
func (p PublicKey) Bytes() ([]byte, error) {
	return base58.DecodeFixed(string(p), PublicKeyLength)
}

// Address is a Base58 encoded 26-byte wallet address.
type Address string

// Bytes decodes the address, requiring exactly AddressLength bytes. The
// checksum is not verified here.
func (a Address) Bytes() ([]byte, error) {
	return base58.DecodeFixed(string(a), AddressLength)
}

// AssetId is either empty, meaning the chain's native asset, or a Base58
// encoded 32-byte asset identifier.
type AssetId string

// NativeAsset is the AssetId of the chain's native asset.
const NativeAsset AssetId = ""

// IsNative reports whether the asset id refers to the native asset.
func (a AssetId) IsNative() bool {
	return a == NativeAsset
}

// TransferTransaction holds the logical fields of a transfer before encoding.
type TransferTransaction struct {
	Type            byte
	SenderPublicKey PublicKey
	Recipient       Address
	Amount          uint64 // indivisible units of AmountAssetId
	Fee             uint64 // indivisible units of FeeAssetId
	FeeAssetId      AssetId
	AmountAssetId   AssetId
	Attachment      []byte
	Timestamp       uint64 // milliseconds since the Unix epoch
}

// NewTransferTransaction builds a transfer of the given type constant. The
// attachment is copied so later changes by the caller are not observed.
func NewTransferTransaction(
	sender PublicKey,
	recipient Address,
	amount uint64,
	amountAsset AssetId,
	fee uint64,
	feeAsset AssetId,
	attachment []byte,
	timestamp uint64,
) *TransferTransaction {
	return &TransferTransaction{
		Type:            TransferTransactionType,
		SenderPublicKey: sender,
		Recipient:       recipient,
		Amount:          amount,
		Fee:             fee,
		FeeAssetId:      feeAsset,
		AmountAssetId:   amountAsset,
		Attachment:      bytes.Clone(attachment),
		Timestamp:       timestamp,
	}
}
