package proto

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"

	"github.com/walletmigrate/zwif/pkg/parser"
)

const (
	// U256Size is the length in bytes of a 256-bit value.
	U256Size = 32
	// U160Size is the length in bytes of a 160-bit value.
	U160Size = 20
	// MemoSize is the fixed length of a shielded memo field.
	MemoSize = 512
	// SignatureSize is the length of Ed25519 and RedJubjub signatures.
	SignatureSize = 64
)

// U256 is a 256-bit value stored in its internal little-endian byte order.
// Equality and hashing operate on the raw bytes; the byte-flipped hex used by
// block explorers appears only in String output.
type U256 [U256Size]byte

// NewU256FromBytes creates a U256 from a slice of exactly 32 bytes.
func NewU256FromBytes(b []byte) (U256, error) {
	var u U256
	if len(b) != U256Size {
		return u, errors.Errorf("invalid U256 length %d, expected %d", len(b), U256Size)
	}
	copy(u[:], b)
	return u, nil
}

func (u *U256) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, u[:])
}

// Bytes returns a copy of the raw value.
func (u U256) Bytes() []byte {
	out := make([]byte, U256Size)
	copy(out, u[:])
	return out
}

func (u U256) String() string {
	return reversedHex(u[:])
}

// U252 is a 256-bit field whose top four bits are required to be zero, such
// as a Jubjub scalar stored in a wallet key record.
type U252 [U256Size]byte

func (u *U252) Decode(p *parser.Parser) error {
	var raw U256
	if err := raw.Decode(p); err != nil {
		return err
	}
	v, err := NewU252FromU256(raw)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// NewU252FromU256 validates the zero high bits constraint. The value decodes
// fine at the byte level, so a violation is a semantic failure.
func NewU252FromU256(raw U256) (U252, error) {
	if raw[0]&0xf0 != 0 {
		return U252{}, parser.InvalidFixedValueError{Reason: "top four bits of u252 must be zero"}
	}
	return U252(raw), nil
}

func (u U252) String() string {
	return reversedHex(u[:])
}

// U160 is a 160-bit value, the size of a RIPEMD-160 public key or script hash.
type U160 [U160Size]byte

func (u *U160) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, u[:])
}

func (u U160) String() string {
	return hex.EncodeToString(u[:])
}

// Anchor is a root of the Sprout, Sapling or Orchard note commitment tree at
// some block height.
type Anchor [U256Size]byte

func (a *Anchor) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, a[:])
}

func (a Anchor) String() string {
	return reversedHex(a[:])
}

// Memo is the fixed 512-byte memo field attached to shielded outputs.
type Memo [MemoSize]byte

func (m *Memo) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, m[:])
}

// Signature is a 64-byte signature carried opaquely through decoding.
type Signature [SignatureSize]byte

func (s *Signature) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, s[:])
}

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// BlockHeight is a position in the block chain.
type BlockHeight uint32

func (h *BlockHeight) Decode(p *parser.Parser) error {
	v, err := parser.ReadUint32(p)
	if err != nil {
		return err
	}
	*h = BlockHeight(v)
	return nil
}

// ExpiryHeight is the block height after which an unmined transaction
// expires. Zero means no expiry.
type ExpiryHeight uint32

func (h *ExpiryHeight) Decode(p *parser.Parser) error {
	v, err := parser.ReadUint32(p)
	if err != nil {
		return err
	}
	*h = ExpiryHeight(v)
	return nil
}

// IsNone reports whether the transaction never expires.
func (h ExpiryHeight) IsNone() bool {
	return h == 0
}

// BranchID identifies the consensus branch a transaction commits to.
type BranchID uint32

func (b *BranchID) Decode(p *parser.Parser) error {
	v, err := parser.ReadUint32(p)
	if err != nil {
		return err
	}
	*b = BranchID(v)
	return nil
}

func (b BranchID) String() string {
	return fmt.Sprintf("%08x", uint32(b))
}

// reversedHex renders hash-like values the way RPC methods and block
// explorers print them. Presentation only, the stored bytes stay untouched.
func reversedHex(b []byte) string {
	r := make([]byte, len(b))
	for i := range b {
		r[len(b)-1-i] = b[i]
	}
	return hex.EncodeToString(r)
}
