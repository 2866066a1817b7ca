package util

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzUint64ToBytesRoundTrip(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(100000000))
	f.Add(^uint64(0))

	f.Fuzz(func(t *testing.T, n uint64) {
		b := Uint64ToBytes(n)
		require.Len(t, b, 8)
		require.Equal(t, n, binary.BigEndian.Uint64(b))
	})
}

func FuzzAmountRoundTrip(f *testing.F) {
	f.Add(uint64(0), uint8(8))
	f.Add(uint64(1), uint8(8))
	f.Add(^uint64(0), uint8(8))
	f.Add(uint64(123456789), uint8(0))

	f.Fuzz(func(t *testing.T, units uint64, decimals uint8) {
		decimals %= 19

		parsed, err := ParseAmount(FormatAmount(units, decimals), decimals)
		require.NoError(t, err)
		require.Equal(t, units, parsed)
	})
}
