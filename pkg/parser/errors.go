package parser

import "fmt"

// BufferUnderflowError is returned when a read demands more bytes than remain
// in the buffer.
type BufferUnderflowError struct {
	Requested int
	Available int
}

func (e BufferUnderflowError) Error() string {
	return fmt.Sprintf("buffer underflow, needed %d bytes, only %d remaining", e.Requested, e.Available)
}

// TrailingDataError is returned by a top level decode that left unconsumed
// bytes in the buffer.
type TrailingDataError struct {
	Count int
}

func (e TrailingDataError) Error() string {
	return fmt.Sprintf("buffer has %d bytes left", e.Count)
}

// NonCanonicalEncodingError is returned when a compact size prefix was used
// where a shorter encoding would have sufficed.
type NonCanonicalEncodingError struct {
	Prefix byte
	Value  uint64
}

func (e NonCanonicalEncodingError) Error() string {
	return fmt.Sprintf("non-canonical compact size, prefix 0x%02x used for value %d", e.Prefix, e.Value)
}

// InvalidDiscriminantError is returned when a parameterized decode is invoked
// with a parameter value the decoder does not recognize.
type InvalidDiscriminantError struct {
	Discriminant int
}

func (e InvalidDiscriminantError) Error() string {
	return fmt.Sprintf("invalid discriminant %d", e.Discriminant)
}

// InvalidFixedValueError is returned when bytes decoded successfully but fail
// a post-decode semantic constraint.
type InvalidFixedValueError struct {
	Reason string
}

func (e InvalidFixedValueError) Error() string {
	return e.Reason
}
