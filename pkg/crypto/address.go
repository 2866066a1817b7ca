package crypto

import (
	"bytes"
	"fmt"

	"github.com/Layr-Labs/waves-transfer-go/pkg/types"
)

// AddressVersion is the first byte of every address.
const AddressVersion byte = 1

const (
	addressHashLength     = 20
	addressChecksumLength = 4
)

// AddressFromPublicKey derives the 26-byte address of publicKey on chainId:
// version, chain id, the first 20 bytes of SecureHash(publicKey), and a
// 4-byte checksum over those 22 bytes.
func AddressFromPublicKey(publicKey []byte, chainId byte) ([]byte, error) {
	if len(publicKey) != types.PublicKeyLength {
		return nil, &InvalidKeyError{KeyType: "public", Length: len(publicKey)}
	}

	keyHash := SecureHash(publicKey)

	address := make([]byte, 0, types.AddressLength)
	address = append(address, AddressVersion, chainId)
	address = append(address, keyHash[:addressHashLength]...)

	checksum := SecureHash(address)
	return append(address, checksum[:addressChecksumLength]...), nil
}

// VerifyAddressChecksum checks the structure of a decoded address: its
// length, version byte and embedded checksum. It does not check the chain id.
func VerifyAddressChecksum(address []byte) error {
	if len(address) != types.AddressLength {
		return fmt.Errorf("address must be %d bytes, got %d", types.AddressLength, len(address))
	}
	if address[0] != AddressVersion {
		return fmt.Errorf("unsupported address version %d", address[0])
	}

	body := address[:types.AddressLength-addressChecksumLength]
	expected := SecureHash(body)
	if !bytes.Equal(expected[:addressChecksumLength], address[types.AddressLength-addressChecksumLength:]) {
		return fmt.Errorf("address checksum mismatch")
	}
	return nil
}

// AddressChainId returns the chain id byte of a decoded address.
func AddressChainId(address []byte) (byte, error) {
	if len(address) != types.AddressLength {
		return 0, fmt.Errorf("address must be %d bytes, got %d", types.AddressLength, len(address))
	}
	return address[1], nil
}
