package parser

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Decodable is implemented by self-describing values that can reconstruct
// themselves from a binary stream. Decode must consume exactly the bytes
// representing the value, no more and no less, and must not assume anything
// about the bytes that follow it.
type Decodable interface {
	Decode(p *Parser) error
}

// DecodableWith is implemented by values whose wire shape depends on context
// supplied by the caller rather than on the value's own bytes. The caller
// resolves the parameter before invoking DecodeWith; the decoder then reads
// exactly one shape and never guesses.
type DecodableWith[P any] interface {
	DecodeWith(p *Parser, param P) error
}

// DecodeBuffer decodes v from a complete buffer and requires every byte to be
// consumed. This is the whole-message entry point; field-level Decode calls
// may legitimately leave trailing sibling data, DecodeBuffer may not.
// A non-nil log enables per-read tracing.
func DecodeBuffer(v Decodable, data []byte, log *slog.Logger) error {
	p := New(data)
	p.SetLogger(log)
	if err := v.Decode(p); err != nil {
		return err
	}
	return p.CheckFinished()
}

// DecodeBufferWith is DecodeBuffer for parameterized values.
func DecodeBufferWith[P any](v DecodableWith[P], data []byte, param P, log *slog.Logger) error {
	p := New(data)
	p.SetLogger(log)
	if err := v.DecodeWith(p, param); err != nil {
		return err
	}
	return p.CheckFinished()
}

// ReadBytes reads exactly n bytes, wrapping any failure with the given label.
func ReadBytes(p *Parser, n int, label string) ([]byte, error) {
	b, err := p.Next(n)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", label)
	}
	return b, nil
}

// ReadExact fills dst with exactly len(dst) bytes from the stream.
func ReadExact(p *Parser, dst []byte) error {
	b, err := p.Next(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadUint8 reads a single byte.
func ReadUint8(p *Parser) (uint8, error) {
	b, err := p.Next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func ReadUint16(p *Parser) (uint16, error) {
	b, err := p.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(p *Parser) (uint32, error) {
	b, err := p.Next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(p *Parser) (uint64, error) {
	b, err := p.Next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt64 reads a little-endian two's complement int64.
func ReadInt64(p *Parser) (int64, error) {
	v, err := ReadUint64(p)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// ReadBool reads one byte that must be 0x00 or 0x01. Any other value is a
// semantic failure, not an underflow.
func ReadBool(p *Parser) (bool, error) {
	b, err := ReadUint8(p)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, InvalidFixedValueError{Reason: fmt.Sprintf("invalid bool value %d", b)}
	}
}
