package localKeyGenerator

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Layr-Labs/waves-transfer-go/internal/keyGenerator"
	"github.com/Layr-Labs/waves-transfer-go/pkg/base58"
	"github.com/Layr-Labs/waves-transfer-go/pkg/config"
	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// keyEntry stores both the private key and metadata for a key
type keyEntry struct {
	privateKey []byte
	publicKey  []byte
	keyName    string
	chainId    config.ChainId
	address    types.Address
}

type LocalKeyGenerator struct {
	logger   *zap.Logger
	rand     io.Reader
	keyStore map[string]*keyEntry // keyId -> keyEntry
	mu       sync.RWMutex         // protect concurrent access to keyStore
}

func NewLocalKeyGenerator(logger *zap.Logger) *LocalKeyGenerator {
	return NewLocalKeyGeneratorWithRand(rand.Reader, logger)
}

// NewLocalKeyGeneratorWithRand uses r as the entropy source, mainly so tests
// can produce known keys
func NewLocalKeyGeneratorWithRand(r io.Reader, logger *zap.Logger) *LocalKeyGenerator {
	return &LocalKeyGenerator{
		logger:   logger,
		rand:     r,
		keyStore: make(map[string]*keyEntry),
	}
}

func (l *LocalKeyGenerator) GenerateKey(ctx context.Context, keyName string, chainId config.ChainId) (*keyGenerator.GeneratedKey, error) {
	l.mu.Lock()
	publicKey, privateKey, err := crypto.GenerateKeyPair(l.rand)
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	keyId := fmt.Sprintf("local-key-%s", uuid.New().String())
	if err := l.loadKey(keyId, privateKey, publicKey, keyName, chainId); err != nil {
		crypto.Wipe(privateKey)
		return nil, err
	}

	return l.GetKeyById(ctx, keyId)
}

func (l *LocalKeyGenerator) GetKeyById(ctx context.Context, keyId string) (*keyGenerator.GeneratedKey, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key with ID %s not found", keyId)
	}

	l.logger.Debug("Retrieved key by ID",
		zap.String("keyId", keyId),
		zap.String("address", string(entry.address)),
	)

	return &keyGenerator.GeneratedKey{
		PublicKey: append([]byte{}, entry.publicKey...),
		Address:   entry.address,
		ChainId:   entry.chainId,
		KeyId:     keyId,
	}, nil
}

func (l *LocalKeyGenerator) SignMessage(ctx context.Context, keyId string, message []byte) ([]byte, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key with ID %s not found", keyId)
	}

	signature, err := crypto.Sign(message, entry.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message with key %s: %w", keyId, err)
	}

	l.logger.Debug("Signed message",
		zap.String("keyId", keyId),
		zap.Int("messageLen", len(message)),
	)

	return signature, nil
}

func (l *LocalKeyGenerator) ExportPrivateKey(ctx context.Context, keyId string) (string, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("key with ID %s not found", keyId)
	}
	return base58.Encode(entry.privateKey), nil
}

// LoadPrivateKey loads a pre-existing Base58 private key into the key store.
func (l *LocalKeyGenerator) LoadPrivateKey(keyId string, privateKey string, keyName string, chainId config.ChainId) error {
	keyBytes, err := base58.DecodeFixed(privateKey, types.PrivateKeyLength)
	if err != nil {
		return fmt.Errorf("failed to decode private key: %w", err)
	}

	publicKey, err := crypto.PublicKeyFromPrivate(keyBytes)
	if err != nil {
		crypto.Wipe(keyBytes)
		return fmt.Errorf("failed to derive public key: %w", err)
	}

	if err := l.loadKey(keyId, keyBytes, publicKey, keyName, chainId); err != nil {
		crypto.Wipe(keyBytes)
		return err
	}
	return nil
}

func (l *LocalKeyGenerator) loadKey(keyId string, privateKey []byte, publicKey []byte, keyName string, chainId config.ChainId) error {
	if _, ok := config.ChainIdToName[chainId]; !ok {
		return fmt.Errorf("unsupported chain id %q", rune(chainId))
	}

	address, err := crypto.AddressFromPublicKey(publicKey, chainId.Byte())
	if err != nil {
		return fmt.Errorf("failed to derive address from public key: %w", err)
	}
	encodedAddress := types.Address(base58.Encode(address))

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.keyStore[keyId]; exists {
		return fmt.Errorf("key with ID %s already exists", keyId)
	}

	l.keyStore[keyId] = &keyEntry{
		privateKey: privateKey,
		publicKey:  publicKey,
		keyName:    keyName,
		chainId:    chainId,
		address:    encodedAddress,
	}

	l.logger.Info("Loaded key into store",
		zap.String("keyId", keyId),
		zap.String("keyName", keyName),
		zap.String("chainId", chainId.String()),
		zap.String("address", string(encodedAddress)),
	)

	return nil
}

// GetKeyCount returns the number of keys in the store.
func (l *LocalKeyGenerator) GetKeyCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.keyStore)
}

// Compile-time check to ensure LocalKeyGenerator implements IKeyGenerator
var _ keyGenerator.IKeyGenerator = (*LocalKeyGenerator)(nil)
