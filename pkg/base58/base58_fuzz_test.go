package base58

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzBase58RoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0x00, 0x00, 0xff})
	f.Add([]byte("waves"))

	f.Fuzz(func(t *testing.T, b []byte) {
		// Keep memory bounded for fuzzing.
		if len(b) > 512 {
			b = b[:512]
		}

		decoded, err := Decode(Encode(b))
		require.NoError(t, err)
		require.True(t, bytes.Equal(b, decoded), "round trip mismatch for %x", b)
	})
}

func FuzzBase58DecodeNeverPanics(f *testing.F) {
	f.Add("")
	f.Add("1111")
	f.Add("0OIl")
	f.Add("3ND7UFHtCTEAdK3HsXw9t78Xm9E77yJZgVE")

	f.Fuzz(func(t *testing.T, s string) {
		decoded, err := Decode(s)
		if err != nil {
			return
		}
		// Whatever decodes must encode back to the same text.
		require.Equal(t, s, Encode(decoded))
	})
}
