package proto

import (
	"encoding/hex"
	"fmt"

	"github.com/walletmigrate/zwif/pkg/parser"
)

// Script is a transparent Bitcoin-style script, stored on the wire as a
// compact size length prefix followed by the script bytes. The bytes are
// carried opaquely, nothing here interprets opcodes beyond the standard
// pay-to-pubkey-hash pattern in ExtractAddress.
type Script []byte

func (s *Script) Decode(p *parser.Parser) error {
	b, err := parser.DecodeByteVector(p, "script")
	if err != nil {
		return err
	}
	*s = b
	return nil
}

func (s Script) String() string {
	return fmt.Sprintf("Script<%d>(%s)", len(s), hex.EncodeToString(s))
}

// IsEmpty reports whether the script has no bytes.
func (s Script) IsEmpty() bool {
	return len(s) == 0
}

// AppendBinary appends the wire encoding of the script to buf.
func (s Script) AppendBinary(buf []byte) []byte {
	buf = parser.AppendCompactSize(buf, uint64(len(s)))
	return append(buf, s...)
}
