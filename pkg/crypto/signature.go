package crypto

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// InvalidKeyError is returned when key material has the wrong size or cannot
// be used for signing.
type InvalidKeyError struct {
	KeyType string // "private" or "public"
	Length  int
	Reason  string
}

func (e *InvalidKeyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s key: %s", e.KeyType, e.Reason)
	}
	return fmt.Sprintf("invalid %s key: expected %d bytes, got %d", e.KeyType, keyLength(e.KeyType), e.Length)
}

func keyLength(keyType string) int {
	if keyType == "public" {
		return types.PublicKeyLength
	}
	return types.PrivateKeyLength
}

// Sign produces a 64-byte Ed25519 signature of message with the 32-byte
// private key (the RFC 8032 seed). Signing is deterministic: the nonce is
// derived from the key and the message, so equal inputs always give the same
// signature and different messages never share a nonce.
//
// The expanded key is wiped before Sign returns. Callers own privateKey and
// should wipe it themselves once done.
func Sign(message []byte, privateKey []byte) ([]byte, error) {
	if len(privateKey) != types.PrivateKeyLength {
		return nil, &InvalidKeyError{KeyType: "private", Length: len(privateKey)}
	}

	expanded := ed25519.NewKeyFromSeed(privateKey)
	defer Wipe(expanded)

	return ed25519.Sign(expanded, message), nil
}

// Verify reports whether signature is a valid signature of message by
// publicKey. Malformed keys or signatures verify as false.
func Verify(message []byte, signature []byte, publicKey []byte) bool {
	if len(publicKey) != types.PublicKeyLength || len(signature) != types.SignatureLength {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// PublicKeyFromPrivate derives the 32-byte public key of a private key.
func PublicKeyFromPrivate(privateKey []byte) ([]byte, error) {
	if len(privateKey) != types.PrivateKeyLength {
		return nil, &InvalidKeyError{KeyType: "private", Length: len(privateKey)}
	}

	expanded := ed25519.NewKeyFromSeed(privateKey)
	defer Wipe(expanded)

	pub := make([]byte, types.PublicKeyLength)
	copy(pub, expanded.Public().(ed25519.PublicKey))
	return pub, nil
}

// GenerateKeyPair creates a fresh key pair from rand. Both keys are 32 bytes.
func GenerateKeyPair(rand io.Reader) (publicKey []byte, privateKey []byte, err error) {
	pub, expanded, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}
	defer Wipe(expanded)

	seed := make([]byte, types.PrivateKeyLength)
	copy(seed, expanded.Seed())
	return pub, seed, nil
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
