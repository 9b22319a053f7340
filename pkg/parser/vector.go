package parser

import "github.com/pkg/errors"

// decodablePtr constrains PT to a pointer to T implementing Decodable, so
// collection helpers can allocate elements in place.
type decodablePtr[T any] interface {
	*T
	Decodable
}

// decodableWithPtr is decodablePtr for parameterized elements.
type decodableWithPtr[T, P any] interface {
	*T
	DecodableWith[P]
}

// DecodeVector decodes a compact size element count followed by that many
// homogeneous elements. The first element failure aborts the whole decode,
// with the failing element's index attached to the error context.
func DecodeVector[T any, PT decodablePtr[T]](p *Parser, label string) ([]T, error) {
	n, err := ReadLength(p)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s count", label)
	}
	if n == 0 {
		return nil, nil
	}
	items := make([]T, n)
	for i := range items {
		if err := PT(&items[i]).Decode(p); err != nil {
			return nil, errors.Wrapf(err, "parsing %s[%d]", label, i)
		}
	}
	return items, nil
}

// DecodeVectorWith is DecodeVector for elements that need a caller-supplied
// parameter. The same parameter is handed to every element.
func DecodeVectorWith[T, P any, PT decodableWithPtr[T, P]](p *Parser, param P, label string) ([]T, error) {
	n, err := ReadLength(p)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s count", label)
	}
	if n == 0 {
		return nil, nil
	}
	items := make([]T, n)
	for i := range items {
		if err := PT(&items[i]).DecodeWith(p, param); err != nil {
			return nil, errors.Wrapf(err, "parsing %s[%d]", label, i)
		}
	}
	return items, nil
}

// DecodeByteVector decodes a compact size byte length followed by that many
// raw bytes.
func DecodeByteVector(p *Parser, label string) ([]byte, error) {
	n, err := ReadLength(p)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s length", label)
	}
	return ReadBytes(p, n, label)
}

// DecodeOptional decodes a value preceded by an explicit one-byte presence
// flag (0x00 absent, 0x01 present). The wire format has no universal inline
// null marker, this helper exists only for structures that carry such a flag
// themselves. A nil result means the value was absent.
func DecodeOptional[T any, PT decodablePtr[T]](p *Parser, label string) (*T, error) {
	present, err := ReadBool(p)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s presence flag", label)
	}
	if !present {
		return nil, nil
	}
	v := new(T)
	if err := PT(v).Decode(p); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", label)
	}
	return v, nil
}
