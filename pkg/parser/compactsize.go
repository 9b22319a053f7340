package parser

import (
	"encoding/binary"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"
)

// Compact size encoding boundaries. Each value has exactly one valid
// encoding, the shortest one that can represent it.
const (
	compactSizePrefix16 = 0xfd
	compactSizePrefix32 = 0xfe
	compactSizePrefix64 = 0xff

	compactSizeMin16 = 253
	compactSizeMin32 = 0x10000
	compactSizeMin64 = 0x100000000
)

// CompactSize is a Bitcoin/Zcash style variable-length unsigned integer used
// to encode lengths of arrays, scripts and other variable-length data.
type CompactSize uint64

func (s *CompactSize) Decode(p *Parser) error {
	v, err := ReadCompactSize(p)
	if err != nil {
		return err
	}
	*s = CompactSize(v)
	return nil
}

// ReadCompactSize reads a canonically encoded compact size. Non-minimal
// encodings are rejected with a NonCanonicalEncodingError, corrupted or
// adversarially crafted inputs frequently manifest exactly there.
func ReadCompactSize(p *Parser) (uint64, error) {
	prefix, err := ReadUint8(p)
	if err != nil {
		return 0, errors.Wrap(err, "parsing compact size")
	}
	switch prefix {
	case compactSizePrefix16:
		v, err := ReadUint16(p)
		if err != nil {
			return 0, errors.Wrap(err, "parsing compact size")
		}
		if v < compactSizeMin16 {
			return 0, NonCanonicalEncodingError{Prefix: prefix, Value: uint64(v)}
		}
		return uint64(v), nil
	case compactSizePrefix32:
		v, err := ReadUint32(p)
		if err != nil {
			return 0, errors.Wrap(err, "parsing compact size")
		}
		if v < compactSizeMin32 {
			return 0, NonCanonicalEncodingError{Prefix: prefix, Value: uint64(v)}
		}
		return uint64(v), nil
	case compactSizePrefix64:
		v, err := ReadUint64(p)
		if err != nil {
			return 0, errors.Wrap(err, "parsing compact size")
		}
		if v < compactSizeMin64 {
			return 0, NonCanonicalEncodingError{Prefix: prefix, Value: v}
		}
		return v, nil
	default:
		return uint64(prefix), nil
	}
}

// ReadLength reads a compact size intended to be used as an element count or
// byte length. The decoded value is validated against the remaining buffer
// length before it can size an allocation, so a maliciously large declared
// count fails here instead of triggering a disproportionate allocation.
func ReadLength(p *Parser) (int, error) {
	v, err := ReadCompactSize(p)
	if err != nil {
		return 0, err
	}
	n, err := safecast.ToInt(v)
	if err != nil {
		return 0, errors.Wrap(err, "parsing length")
	}
	if n > p.Remaining() {
		return 0, BufferUnderflowError{Requested: n, Available: p.Remaining()}
	}
	return n, nil
}

// AppendCompactSize appends the canonical encoding of v to buf.
func AppendCompactSize(buf []byte, v uint64) []byte {
	switch {
	case v < compactSizeMin16:
		return append(buf, byte(v))
	case v < compactSizeMin32:
		buf = append(buf, compactSizePrefix16)
		return binary.LittleEndian.AppendUint16(buf, uint16(v))
	case v < compactSizeMin64:
		buf = append(buf, compactSizePrefix32)
		return binary.LittleEndian.AppendUint32(buf, uint32(v))
	default:
		buf = append(buf, compactSizePrefix64)
		return binary.LittleEndian.AppendUint64(buf, v)
	}
}
