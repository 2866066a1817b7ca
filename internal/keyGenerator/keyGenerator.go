package keyGenerator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/config"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

type GeneratedKey struct {
	PublicKey []byte
	Address   types.Address
	ChainId   config.ChainId
	KeyId     string
}

func (gk *GeneratedKey) GetPublicKeyBytes() ([]byte, error) {
	if len(gk.PublicKey) != types.PublicKeyLength {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", types.PublicKeyLength, len(gk.PublicKey))
	}
	return gk.PublicKey, nil
}

// GetPublicKey returns the Base58 form used in config files and payloads
func (gk *GeneratedKey) GetPublicKey() (types.PublicKey, error) {
	pubKeyBytes, err := gk.GetPublicKeyBytes()
	if err != nil {
		return "", err
	}
	return types.PublicKey(base58.Encode(pubKeyBytes)), nil
}

func (gk *GeneratedKey) GetPublicKeyHex() (string, error) {
	pubKeyBytes, err := gk.GetPublicKeyBytes()
	if err != nil {
		return "", fmt.Errorf("failed to get public key bytes: %w", err)
	}
	return hexutil.Encode(pubKeyBytes), nil
}

type IKeyGenerator interface {
	GenerateKey(ctx context.Context, keyName string, chainId config.ChainId) (*GeneratedKey, error)
	GetKeyById(ctx context.Context, keyId string) (*GeneratedKey, error)
	SignMessage(ctx context.Context, keyId string, message []byte) ([]byte, error)
	// ExportPrivateKey returns the Base58 private key so it can be placed in
	// a signer config
	ExportPrivateKey(ctx context.Context, keyId string) (string, error)
}
