package proto

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Network selects the address version prefixes.
type Network byte

const (
	Mainnet Network = iota
	Testnet
	Regtest
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "main"
	case Testnet:
		return "test"
	case Regtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// Transparent address version prefixes. Regtest shares the testnet prefixes.
var (
	mainnetP2PKHPrefix = [2]byte{0x1C, 0xB8}
	mainnetP2SHPrefix  = [2]byte{0x1C, 0xBD}
	testnetP2PKHPrefix = [2]byte{0x1D, 0x25}
	testnetP2SHPrefix  = [2]byte{0x1C, 0xBA}
)

const (
	transparentAddressChecksumSize = 4
	transparentAddressSize         = 2 + U160Size + transparentAddressChecksumSize
)

// TransparentAddress is a Base58Check-encoded transparent address: a
// two-byte version prefix over a 160-bit key or script hash.
type TransparentAddress struct {
	Prefix [2]byte
	Hash   U160
}

// NewP2PKHAddress builds a pay-to-pubkey-hash address for the given network.
func NewP2PKHAddress(hash U160, network Network) TransparentAddress {
	prefix := mainnetP2PKHPrefix
	if network != Mainnet {
		prefix = testnetP2PKHPrefix
	}
	return TransparentAddress{Prefix: prefix, Hash: hash}
}

// NewP2SHAddress builds a pay-to-script-hash address for the given network.
func NewP2SHAddress(hash U160, network Network) TransparentAddress {
	prefix := mainnetP2SHPrefix
	if network != Mainnet {
		prefix = testnetP2SHPrefix
	}
	return TransparentAddress{Prefix: prefix, Hash: hash}
}

// ParseTransparentAddress decodes a Base58Check transparent address and
// verifies its checksum and version prefix.
func ParseTransparentAddress(s string) (TransparentAddress, error) {
	var a TransparentAddress
	b, err := base58.Decode(s)
	if err != nil {
		return a, errors.Wrap(err, "failed to decode transparent address")
	}
	if len(b) != transparentAddressSize {
		return a, errors.Errorf("invalid transparent address length %d, expected %d", len(b), transparentAddressSize)
	}
	payload := b[:2+U160Size]
	if !bytes.Equal(addressChecksum(payload), b[2+U160Size:]) {
		return a, errors.New("invalid transparent address checksum")
	}
	copy(a.Prefix[:], payload[:2])
	if !a.knownPrefix() {
		return a, errors.Errorf("unknown transparent address prefix %02x%02x", a.Prefix[0], a.Prefix[1])
	}
	copy(a.Hash[:], payload[2:])
	return a, nil
}

func (a TransparentAddress) knownPrefix() bool {
	switch a.Prefix {
	case mainnetP2PKHPrefix, mainnetP2SHPrefix, testnetP2PKHPrefix, testnetP2SHPrefix:
		return true
	default:
		return false
	}
}

// IsP2SH reports whether the address commits to a script hash.
func (a TransparentAddress) IsP2SH() bool {
	return a.Prefix == mainnetP2SHPrefix || a.Prefix == testnetP2SHPrefix
}

func (a TransparentAddress) String() string {
	payload := make([]byte, 0, transparentAddressSize)
	payload = append(payload, a.Prefix[:]...)
	payload = append(payload, a.Hash[:]...)
	payload = append(payload, addressChecksum(payload)...)
	return base58.Encode(payload)
}

// addressChecksum is the first four bytes of a double SHA-256 of the payload.
func addressChecksum(payload []byte) []byte {
	h := sha256.Sum256(payload)
	h = sha256.Sum256(h[:])
	return h[:transparentAddressChecksumSize]
}

// Standard P2PKH script template: OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY
// OP_CHECKSIG, and P2SH: OP_HASH160 <20 bytes> OP_EQUAL.
const (
	opDup         = 0x76
	opHash160     = 0xa9
	opEqual       = 0x87
	opEqualVerify = 0x88
	opCheckSig    = 0xac
)

// ExtractAddress recovers the transparent address a standard scriptPubKey
// pays to, or an error for non-standard scripts.
func ExtractAddress(script Script, network Network) (TransparentAddress, error) {
	switch {
	case len(script) == 25 && script[0] == opDup && script[1] == opHash160 && script[2] == U160Size &&
		script[23] == opEqualVerify && script[24] == opCheckSig:
		var h U160
		copy(h[:], script[3:23])
		return NewP2PKHAddress(h, network), nil
	case len(script) == 23 && script[0] == opHash160 && script[1] == U160Size && script[22] == opEqual:
		var h U160
		copy(h[:], script[2:22])
		return NewP2SHAddress(h, network), nil
	default:
		return TransparentAddress{}, errors.New("non-standard script")
	}
}
