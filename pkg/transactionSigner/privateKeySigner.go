package transactionSigner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// PrivateKeySigner implements ITransactionSigner with a Base58 private key
// held in memory. The raw key bytes only exist for the duration of a call.
type PrivateKeySigner struct {
	privateKey string
	publicKey  types.PublicKey
	logger     *zap.Logger
}

// NewPrivateKeySigner decodes privateKey and derives its public key. If
// expectedPublicKey is non-empty it must match the derived key.
func NewPrivateKeySigner(privateKey string, expectedPublicKey types.PublicKey, logger *zap.Logger) (*PrivateKeySigner, error) {
	keyBytes, err := base58.Decode(privateKey)
	if err != nil {
		return nil, &crypto.InvalidKeyError{KeyType: "private", Reason: "not valid Base58"}
	}
	defer crypto.Wipe(keyBytes)

	publicKeyBytes, err := crypto.PublicKeyFromPrivate(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}

	publicKey := types.PublicKey(base58.Encode(publicKeyBytes))
	if expectedPublicKey != "" && expectedPublicKey != publicKey {
		return nil, &crypto.InvalidKeyError{
			KeyType: "public",
			Reason:  fmt.Sprintf("%s does not belong to the configured private key", expectedPublicKey),
		}
	}

	logger.Sugar().Debugw("Loaded transaction signer", "publicKey", publicKey)

	return &PrivateKeySigner{
		privateKey: privateKey,
		publicKey:  publicKey,
		logger:     logger,
	}, nil
}

func (s *PrivateKeySigner) PublicKey() types.PublicKey {
	return s.publicKey
}

func (s *PrivateKeySigner) SignTransaction(ctx context.Context, canonical []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keyBytes, err := base58.Decode(s.privateKey)
	if err != nil {
		return nil, &crypto.InvalidKeyError{KeyType: "private", Reason: "not valid Base58"}
	}
	defer crypto.Wipe(keyBytes)

	return crypto.Sign(canonical, keyBytes)
}

// Compile-time check to ensure PrivateKeySigner implements ITransactionSigner
var _ ITransactionSigner = (*PrivateKeySigner)(nil)
