package transactionSigner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// ITransactionSigner signs canonical transaction bytes on behalf of a single
// sender key
type ITransactionSigner interface {
	// PublicKey returns the Base58 public key signatures verify against
	PublicKey() types.PublicKey

	// SignTransaction returns the 64-byte signature of canonical
	SignTransaction(ctx context.Context, canonical []byte) ([]byte, error)
}

type SignerConfig struct {
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
	// PublicKey is optional; when set it must belong to PrivateKey
	PublicKey string `json:"publicKey" yaml:"publicKey"`
}

func NewTransactionSigner(cfg *SignerConfig, logger *zap.Logger) (ITransactionSigner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("signer config cannot be nil")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	return NewPrivateKeySigner(cfg.PrivateKey, types.PublicKey(cfg.PublicKey), logger)
}
