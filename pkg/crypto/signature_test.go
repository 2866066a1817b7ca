package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestSign_RFC8032Vectors checks the engine against the published Ed25519 test vectors
func TestSign_RFC8032Vectors(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		public    string
		message   string
		signature string
	}{
		{
			name:      "test 1 empty message",
			secret:    "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60",
			public:    "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
			message:   "",
			signature: "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b",
		},
		{
			name:      "test 2 one byte",
			secret:    "4ccd089b28ff96da9db6c346ec114e0f5b8a319f35aba624da8cf6ed4fb8a6fb",
			public:    "3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c",
			message:   "72",
			signature: "92a009a9f0d4cab8720e820b5f642540a2b27b5416503f8fb3762223ebdb69da085ac1e43e15996e458f3613d0f11d8c387b2eaeb4302aeeb00d291612bb0c00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := mustHex(t, tt.secret)
			message := mustHex(t, tt.message)

			pub, err := PublicKeyFromPrivate(secret)
			require.NoError(t, err)
			assert.Equal(t, tt.public, hex.EncodeToString(pub))

			sig, err := Sign(message, secret)
			require.NoError(t, err)
			assert.Equal(t, tt.signature, hex.EncodeToString(sig))

			assert.True(t, Verify(message, sig, pub))
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	_, priv, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	message := []byte("transfer 1 waves")
	sig1, err := Sign(message, priv)
	require.NoError(t, err)
	sig2, err := Sign(message, priv)
	require.NoError(t, err)

	require.Equal(t, sig1, sig2, "Signing the same message twice should give the same signature")
}

// TestSign_DistinctMessagesDistinctNonces checks that the R half of the
// signature (the nonce commitment) differs for different messages under one key
func TestSign_DistinctMessagesDistinctNonces(t *testing.T) {
	_, priv, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 64; i++ {
		message := []byte{byte(i), byte(i >> 8), 0xaa}
		sig, err := Sign(message, priv)
		require.NoError(t, err)

		r := hex.EncodeToString(sig[:32])
		_, dup := seen[r]
		require.False(t, dup, "nonce commitment reused for message %d", i)
		seen[r] = struct{}{}
	}
}

func TestSign_InvalidPrivateKey(t *testing.T) {
	for _, size := range []int{0, 31, 33, 64} {
		sig, err := Sign([]byte("msg"), make([]byte, size))
		require.Error(t, err)
		assert.Nil(t, sig)

		var keyErr *InvalidKeyError
		require.True(t, errors.As(err, &keyErr))
		assert.Equal(t, "private", keyErr.KeyType)
		assert.Equal(t, size, keyErr.Length)
	}
}

func TestVerify_RejectsTampering(t *testing.T) {
	pub, priv, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	message := []byte("canonical bytes")
	sig, err := Sign(message, priv)
	require.NoError(t, err)
	require.True(t, Verify(message, sig, pub))

	tamperedMsg := bytes.Clone(message)
	tamperedMsg[0] ^= 0x01
	assert.False(t, Verify(tamperedMsg, sig, pub))

	tamperedSig := bytes.Clone(sig)
	tamperedSig[10] ^= 0x01
	assert.False(t, Verify(message, tamperedSig, pub))

	otherPub, _, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)
	assert.False(t, Verify(message, sig, otherPub))

	// Malformed inputs never panic
	assert.False(t, Verify(message, sig[:63], pub))
	assert.False(t, Verify(message, sig, pub[:31]))
	assert.False(t, Verify(message, nil, nil))
}

func TestSignVerify_GeneratedKeyPairs(t *testing.T) {
	for i := 0; i < 32; i++ {
		pub, priv, err := GenerateKeyPair(rand.Reader)
		require.NoError(t, err)
		require.Len(t, pub, 32)
		require.Len(t, priv, 32)

		derived, err := PublicKeyFromPrivate(priv)
		require.NoError(t, err)
		require.Equal(t, pub, derived)

		message := make([]byte, i*7)
		_, err = rand.Read(message)
		require.NoError(t, err)

		sig, err := Sign(message, priv)
		require.NoError(t, err)
		require.Len(t, sig, 64)
		require.True(t, Verify(message, sig, derived))
	}
}

func TestSign_Concurrent(t *testing.T) {
	pub, priv, err := GenerateKeyPair(rand.Reader)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			message := []byte{byte(i)}
			sig, err := Sign(message, priv)
			if err != nil {
				errs <- err
				return
			}
			if !Verify(message, sig, pub) {
				errs <- errors.New("signature did not verify")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	Wipe(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
	Wipe(nil)
}
