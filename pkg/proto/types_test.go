package proto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletmigrate/zwif/pkg/parser"
)

func TestU256Decode(t *testing.T) {
	// 32 zero bytes decode cleanly and consume the whole buffer.
	var u U256
	require.NoError(t, parser.DecodeBuffer(&u, make([]byte, 32), nil))
	assert.Equal(t, U256{}, u)

	// One byte short fails with the exact underflow report.
	err := parser.DecodeBuffer(&u, make([]byte, 31), nil)
	var underflow parser.BufferUnderflowError
	require.ErrorAs(t, err, &underflow)
	assert.Equal(t, 32, underflow.Requested)
	assert.Equal(t, 31, underflow.Available)
}

func TestU256String(t *testing.T) {
	data := make([]byte, 32)
	data[0] = 0xab
	data[31] = 0x01
	u, err := NewU256FromBytes(data)
	require.NoError(t, err)
	// Display flips the bytes, storage does not.
	assert.Equal(t, "01", u.String()[:2])
	assert.Equal(t, "ab", u.String()[62:])
	assert.Equal(t, data, u.Bytes())
}

func TestNewU256FromBytesLength(t *testing.T) {
	_, err := NewU256FromBytes(make([]byte, 33))
	assert.Error(t, err)
}

func TestU252HighBits(t *testing.T) {
	var u U252
	require.NoError(t, parser.DecodeBuffer(&u, make([]byte, 32), nil))

	bad := make([]byte, 32)
	bad[0] = 0x10
	err := parser.DecodeBuffer(&u, bad, nil)
	var invalid parser.InvalidFixedValueError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "u252")

	ok := make([]byte, 32)
	ok[0] = 0x0f // low nibble is unconstrained
	assert.NoError(t, parser.DecodeBuffer(&u, ok, nil))
}

func TestFixedSizeRoundTrips(t *testing.T) {
	// Each fixed value reads exactly its size and reproduces the bytes.
	data := bytes.Repeat([]byte{0x5a}, MemoSize)
	var m Memo
	require.NoError(t, parser.DecodeBuffer(&m, data, nil))
	assert.Equal(t, data, m[:])

	var sig Signature
	require.NoError(t, parser.DecodeBuffer(&sig, data[:SignatureSize], nil))
	assert.Equal(t, data[:SignatureSize], sig[:])

	var u160 U160
	require.NoError(t, parser.DecodeBuffer(&u160, data[:U160Size], nil))
	assert.Equal(t, data[:U160Size], u160[:])
}

func TestHeightsAndBranchID(t *testing.T) {
	var h ExpiryHeight
	require.NoError(t, parser.DecodeBuffer(&h, []byte{0x0a, 0x00, 0x00, 0x00}, nil))
	assert.Equal(t, ExpiryHeight(10), h)
	assert.False(t, h.IsNone())

	require.NoError(t, parser.DecodeBuffer(&h, []byte{0x00, 0x00, 0x00, 0x00}, nil))
	assert.True(t, h.IsNone())

	var b BranchID
	require.NoError(t, parser.DecodeBuffer(&b, []byte{0x85, 0x20, 0x2f, 0x89}, nil))
	assert.Equal(t, "892f2085", b.String())
}

func TestTxIDStringAndJSON(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	id, err := NewTxIDFromBytes(raw)
	require.NoError(t, err)

	// String is the byte-flipped hex form; parsing it back restores the
	// internal order.
	parsed, err := NewTxIDFromString(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	j, err := id.MarshalJSON()
	require.NoError(t, err)
	var back TxID
	require.NoError(t, back.UnmarshalJSON(j))
	assert.Equal(t, id, back)
}

func TestAmountDecode(t *testing.T) {
	var a Amount
	require.NoError(t, parser.DecodeBuffer(&a, []byte{0x00, 0xe4, 0x0b, 0x54, 0x02, 0x00, 0x00, 0x00}, nil))
	assert.Equal(t, Amount(10_000_000_000), a)
	assert.Equal(t, "100.00000000", a.String())
	assert.True(t, a.Valid())

	// Past the monetary supply.
	err := parser.DecodeBuffer(&a, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, nil)
	var invalid parser.InvalidFixedValueError
	assert.ErrorAs(t, err, &invalid)
}

func TestValueBalanceDecode(t *testing.T) {
	var v ValueBalance
	// -1 zatoshi.
	require.NoError(t, parser.DecodeBuffer(&v, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, nil))
	assert.Equal(t, ValueBalance(-1), v)

	// Minimum int64 is far outside the monetary range.
	err := parser.DecodeBuffer(&v, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80}, nil)
	var invalid parser.InvalidFixedValueError
	assert.ErrorAs(t, err, &invalid)
}

func TestScriptDecode(t *testing.T) {
	var s Script
	require.NoError(t, parser.DecodeBuffer(&s, []byte{0x03, 0x51, 0x52, 0x53}, nil))
	assert.Equal(t, Script{0x51, 0x52, 0x53}, s)
	assert.False(t, s.IsEmpty())

	buf := s.AppendBinary(nil)
	assert.Equal(t, []byte{0x03, 0x51, 0x52, 0x53}, buf)

	// Declared script length beyond the available bytes.
	err := parser.DecodeBuffer(&s, []byte{0x09, 0x51}, nil)
	var underflow parser.BufferUnderflowError
	assert.ErrorAs(t, err, &underflow)
}
