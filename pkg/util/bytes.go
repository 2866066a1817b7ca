package util

import "encoding/binary"

// Uint64ToBytes returns n as 8 big-endian bytes.
func Uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// Uint16ToBytes returns n as 2 big-endian bytes.
func Uint16ToBytes(n uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, n)
	return b
}

// Concat joins parts in argument order into a freshly allocated slice.
func Concat(parts ...[]byte) []byte {
	return Flatten(parts)
}
