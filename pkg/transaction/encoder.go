package transaction

import (
	"errors"
	"fmt"

	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
	"github.com/Layr-Labs/waves-transfer-go/pkg/util"
)

const (
	assetFlagNative byte = 0
	assetFlagCustom byte = 1
)

// Field names used in MalformedFieldError.
const (
	FieldType            = "type"
	FieldSenderPublicKey = "senderPublicKey"
	FieldAmountAssetId   = "amountAssetId"
	FieldFeeAssetId      = "feeAssetId"
	FieldRecipient       = "recipient"
	FieldAttachment      = "attachment"
)

// fixedLength is the size of a transfer with native assets and no attachment.
const fixedLength = 1 + types.PublicKeyLength + 1 + 1 + 8 + 8 + 8 + types.AddressLength + 2

// Encode produces the canonical bytes of a transfer, the exact message that
// is signed and that a node rebuilds to verify the signature:
//
//	type(1) | senderPublicKey(32) | amountAssetFlag(1) [amountAssetId(32)] |
//	feeAssetFlag(1) [feeAssetId(32)] | timestamp(8) | amount(8) | fee(8) |
//	recipient(26) | attachmentLength(2) | attachment(N)
//
// Integers are big-endian. A field that decodes to the wrong size fails with
// *MalformedFieldError; nothing is padded or truncated.
func Encode(tx *types.TransferTransaction) ([]byte, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction cannot be nil")
	}
	if tx.Type != types.TransferTransactionType {
		return nil, &MalformedFieldError{
			Field: FieldType,
			Err:   fmt.Errorf("expected transaction type %d, got %d", types.TransferTransactionType, tx.Type),
		}
	}

	senderPublicKey, err := decodeField(FieldSenderPublicKey, string(tx.SenderPublicKey), types.PublicKeyLength)
	if err != nil {
		return nil, err
	}

	amountAsset, err := encodeAsset(FieldAmountAssetId, tx.AmountAssetId)
	if err != nil {
		return nil, err
	}

	feeAsset, err := encodeAsset(FieldFeeAssetId, tx.FeeAssetId)
	if err != nil {
		return nil, err
	}

	recipient, err := decodeField(FieldRecipient, string(tx.Recipient), types.AddressLength)
	if err != nil {
		return nil, err
	}
	if err := crypto.VerifyAddressChecksum(recipient); err != nil {
		return nil, &MalformedFieldError{Field: FieldRecipient, Err: err}
	}

	if len(tx.Attachment) > types.MaxAttachmentLength {
		return nil, &MalformedFieldError{
			Field: FieldAttachment,
			Err:   fmt.Errorf("%d bytes exceeds the maximum of %d", len(tx.Attachment), types.MaxAttachmentLength),
		}
	}

	canonical := util.Concat(
		[]byte{tx.Type},
		senderPublicKey,
		amountAsset,
		feeAsset,
		util.Uint64ToBytes(tx.Timestamp),
		util.Uint64ToBytes(tx.Amount),
		util.Uint64ToBytes(tx.Fee),
		recipient,
		util.Uint16ToBytes(uint16(len(tx.Attachment))),
		tx.Attachment,
	)
	if len(canonical) != EncodedLength(tx) {
		return nil, fmt.Errorf("encoded %d bytes, expected %d", len(canonical), EncodedLength(tx))
	}
	return canonical, nil
}

// EncodedLength returns the number of bytes Encode produces for tx, assuming
// its fields are well formed.
func EncodedLength(tx *types.TransferTransaction) int {
	length := fixedLength + len(tx.Attachment)
	if !tx.AmountAssetId.IsNative() {
		length += types.AssetIdLength
	}
	if !tx.FeeAssetId.IsNative() {
		length += types.AssetIdLength
	}
	return length
}

// ID returns the transaction id for canonical bytes: the Base58 encoded
// BLAKE2b-256 digest.
func ID(canonical []byte) string {
	digest := crypto.Blake2b256(canonical)
	return base58.Encode(digest[:])
}

// encodeAsset writes the presence flag and, for custom assets, the raw id.
// The native asset is never written as 32 zero bytes.
func encodeAsset(field string, asset types.AssetId) ([]byte, error) {
	if asset.IsNative() {
		return []byte{assetFlagNative}, nil
	}

	id, err := decodeField(field, string(asset), types.AssetIdLength)
	if err != nil {
		return nil, err
	}
	return util.Concat([]byte{assetFlagCustom}, id), nil
}

func decodeField(field string, value string, size int) ([]byte, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, &MalformedFieldError{Field: field, Err: err}
	}
	if len(decoded) != size {
		return nil, &MalformedFieldError{
			Field:    field,
			Expected: size,
			Actual:   len(decoded),
			Err:      &base58.DecodeError{Input: value, Position: -1, ExpectedLength: size, ActualLength: len(decoded)},
		}
	}
	return decoded, nil
}

// IsMalformed reports whether err is, or wraps, a *MalformedFieldError.
func IsMalformed(err error) bool {
	var malformed *MalformedFieldError
	return errors.As(err, &malformed)
}
