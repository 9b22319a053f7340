package proto

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"

	"github.com/walletmigrate/zwif/pkg/parser"
)

// TxIDSize is the length of a transaction identifier in bytes.
const TxIDSize = 32

// TxID is a transaction identifier in its internal byte order. Comparison and
// hashing use the raw bytes; only String flips them into the hex form block
// explorers expect.
type TxID [TxIDSize]byte

// NewTxIDFromBytes creates a TxID from a slice of exactly 32 bytes.
func NewTxIDFromBytes(b []byte) (TxID, error) {
	var id TxID
	if len(b) != TxIDSize {
		return id, errors.Errorf("invalid TxID length %d, expected %d", len(b), TxIDSize)
	}
	copy(id[:], b)
	return id, nil
}

// NewTxIDFromString parses the byte-flipped hex form produced by String.
func NewTxIDFromString(s string) (TxID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return TxID{}, errors.Wrap(err, "failed to decode TxID from hex")
	}
	if len(b) != TxIDSize {
		return TxID{}, errors.Errorf("invalid TxID length %d, expected %d", len(b), TxIDSize)
	}
	var id TxID
	for i := range b {
		id[TxIDSize-1-i] = b[i]
	}
	return id, nil
}

func (id *TxID) Decode(p *parser.Parser) error {
	return parser.ReadExact(p, id[:])
}

// Bytes returns a copy of the identifier in internal byte order.
func (id TxID) Bytes() []byte {
	out := make([]byte, TxIDSize)
	copy(out, id[:])
	return out
}

// String renders the byte-flipped hex string, the form usable in RPC lookups
// and block explorers.
func (id TxID) String() string {
	return reversedHex(id[:])
}

func (id TxID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", id.String())), nil
}

func (id *TxID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("failed to unmarshal TxID from JSON, expected string")
	}
	v, err := NewTxIDFromString(string(data[1 : len(data)-1]))
	if err != nil {
		return errors.Wrap(err, "failed to unmarshal TxID from JSON")
	}
	*id = v
	return nil
}
