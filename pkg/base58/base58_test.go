package base58

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownVectors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		encoded string
	}{
		{name: "empty", input: []byte{}, encoded: ""},
		{name: "single zero byte", input: []byte{0x00}, encoded: "1"},
		{name: "leading zeros", input: []byte{0x00, 0x00, 0x01}, encoded: "112"},
		{name: "ascii", input: []byte("hello world"), encoded: "StV1DL6CwTryKyV"},
		{name: "leading zeros with payload", input: []byte{0x00, 0x00, 0x00, 0x28, 0x7f, 0xb4, 0xcd}, encoded: "111233QC4"},
		{name: "32 zero bytes", input: make([]byte, 32), encoded: "11111111111111111111111111111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, Encode(tt.input))

			decoded, err := Decode(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.input, decoded)
		})
	}
}

func TestDecode_InvalidCharacters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		position int
		char     rune
	}{
		{name: "zero digit", input: "0abc", position: 0, char: '0'},
		{name: "capital O", input: "abOc", position: 2, char: 'O'},
		{name: "capital I", input: "12I", position: 2, char: 'I'},
		{name: "lowercase l", input: "l", position: 0, char: 'l'},
		{name: "plus sign", input: "abc+", position: 3, char: '+'},
		{name: "whitespace", input: "ab c", position: 2, char: ' '},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.input)
			require.Error(t, err)
			assert.Nil(t, decoded)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.position, decodeErr.Position)
			assert.Equal(t, tt.char, decodeErr.Char)
			assert.Contains(t, err.Error(), "invalid base58 character")
		})
	}
}

func TestDecodeFixed(t *testing.T) {
	// 32 bytes: 0x01..0x20
	const assetID = "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw"

	decoded, err := DecodeFixed(assetID, 32)
	require.NoError(t, err)
	require.Len(t, decoded, 32)
	for i, b := range decoded {
		assert.Equal(t, byte(i+1), b)
	}

	_, err = DecodeFixed(assetID, 26)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, -1, decodeErr.Position)
	assert.Equal(t, 26, decodeErr.ExpectedLength)
	assert.Equal(t, 32, decodeErr.ActualLength)

	_, err = DecodeFixed("", 32)
	require.Error(t, err)

	_, err = DecodeFixed("0", 1)
	require.Error(t, err)
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 0, decodeErr.Position)
}

func TestRoundTrip_LeadingZerosPreserved(t *testing.T) {
	for zeros := 0; zeros < 40; zeros++ {
		input := make([]byte, zeros, zeros+3)
		input = append(input, 0xde, 0xad, 0xbe)

		decoded, err := Decode(Encode(input))
		require.NoError(t, err)
		require.Equal(t, input, decoded, "leading zeros: %d", zeros)
	}

	for zeros := 1; zeros < 40; zeros++ {
		input := make([]byte, zeros)
		encoded := Encode(input)
		require.Len(t, encoded, zeros)

		decoded, err := Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, input, decoded)
	}
}
