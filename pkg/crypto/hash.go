package crypto

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Blake2b256 returns the 32-byte BLAKE2b digest of data. It is the "fast
// hash" of the protocol and the transaction id function.
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// SecureHash returns keccak256(blake2b256(data)), the hash used for address
// derivation and address checksums.
func SecureHash(data []byte) [32]byte {
	fast := Blake2b256(data)
	return keccak256Hash(fast[:])
}

// keccak256Hash uses ethereum's legacy Keccak256 rather than NIST SHA3
func keccak256Hash(data []byte) [32]byte {
	hash := ethcrypto.Keccak256Hash(data)
	return [32]byte(hash)
}
