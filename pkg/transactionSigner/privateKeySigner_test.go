package transactionSigner

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/waves-transfer-go/pkg/crypto"
	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

const (
	testPrivateKey  = "BbMQkQYZspmkytduTWvXEtc4mMURjsekJDvty2WtKeSb"
	testPublicKey   = "FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z"
	otherPrivateKey = "6AoKS5iPKnvmJrknxwLPvHMcMR8jPxQVqT5wbrUnJNQz"
)

func TestNewTransactionSigner(t *testing.T) {
	l := zaptest.NewLogger(t)

	_, err := NewTransactionSigner(nil, l)
	require.Error(t, err)

	_, err = NewTransactionSigner(&SignerConfig{}, l)
	require.ErrorContains(t, err, "private key cannot be empty")

	signer, err := NewTransactionSigner(&SignerConfig{PrivateKey: testPrivateKey, PublicKey: testPublicKey}, l)
	require.NoError(t, err)
	assert.Equal(t, types.PublicKey(testPublicKey), signer.PublicKey())
}

func TestNewPrivateKeySigner_DerivesPublicKey(t *testing.T) {
	signer, err := NewPrivateKeySigner(testPrivateKey, "", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, types.PublicKey(testPublicKey), signer.PublicKey())
}

func TestNewPrivateKeySigner_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		privateKey string
		publicKey  types.PublicKey
	}{
		{name: "bad alphabet", privateKey: "0OIl"},
		{name: "31 byte key", privateKey: "4HTgfBSd4PWTFfJysdjbVH2McdvrAij53RoFSW2zRGt"},
		{name: "33 byte key", privateKey: "26yTjp7oTkXHGSpNfoZCKyXEJXt1ZCyFkr1xM8pumXxjWG"},
		{name: "mismatched public key", privateKey: otherPrivateKey, publicKey: testPublicKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrivateKeySigner(tt.privateKey, tt.publicKey, zaptest.NewLogger(t))
			require.Error(t, err)

			var keyErr *crypto.InvalidKeyError
			assert.True(t, errors.As(err, &keyErr))
			assert.NotContains(t, err.Error(), tt.privateKey)
		})
	}
}

func TestPrivateKeySigner_SignTransaction(t *testing.T) {
	signer, err := NewPrivateKeySigner(testPrivateKey, testPublicKey, zaptest.NewLogger(t))
	require.NoError(t, err)

	// RFC 8032 test 1: empty message
	sig, err := signer.SignTransaction(context.Background(), []byte{})
	require.NoError(t, err)
	assert.Equal(t,
		"e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b",
		hex.EncodeToString(sig))

	message := []byte("canonical transfer bytes")
	sig1, err := signer.SignTransaction(context.Background(), message)
	require.NoError(t, err)
	sig2, err := signer.SignTransaction(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig2)

	publicKey, err := signer.PublicKey().Bytes()
	require.NoError(t, err)
	assert.True(t, crypto.Verify(message, sig1, publicKey))
}

func TestPrivateKeySigner_CanceledContext(t *testing.T) {
	signer, err := NewPrivateKeySigner(testPrivateKey, "", zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = signer.SignTransaction(ctx, []byte("msg"))
	require.ErrorIs(t, err, context.Canceled)
}
