package parser

import (
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	p := New([]byte{1, 2, 3, 4, 5})
	b, err := p.Next(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)
	assert.Equal(t, 3, p.Remaining())

	b, err = p.Next(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4, 5}, b)
	assert.Equal(t, 0, p.Remaining())
}

func TestNextReturnsCopy(t *testing.T) {
	src := []byte{1, 2, 3}
	p := New(src)
	b, err := p.Next(3)
	require.NoError(t, err)
	b[0] = 0xff
	assert.Equal(t, []byte{1, 2, 3}, src)
}

func TestNextUnderflowLeavesOffsetUnchanged(t *testing.T) {
	p := New([]byte{1, 2, 3})
	_, err := p.Next(1)
	require.NoError(t, err)

	_, err = p.Next(5)
	var underflow BufferUnderflowError
	require.ErrorAs(t, err, &underflow)
	assert.Equal(t, 5, underflow.Requested)
	assert.Equal(t, 2, underflow.Available)

	// The failed read must not consume anything.
	b, err := p.Next(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, b)
}

func TestNextZero(t *testing.T) {
	p := New(nil)
	b, err := p.Next(0)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestNextNegativePanics(t *testing.T) {
	p := New([]byte{1})
	assert.Panics(t, func() { _, _ = p.Next(-1) })
}

func TestPeek(t *testing.T) {
	p := New([]byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2}, p.Peek(2))
	assert.Equal(t, []byte{1, 2, 3}, p.Peek(100)) // truncated, never fails
	assert.Equal(t, 3, p.Remaining())             // no advance

	_, err := p.Next(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, p.Peek(100))
}

func TestRestAndPeekRest(t *testing.T) {
	p := New([]byte{1, 2, 3, 4})
	_, err := p.Next(1)
	require.NoError(t, err)

	assert.Equal(t, []byte{2, 3, 4}, p.PeekRest())
	assert.Equal(t, 3, p.Remaining())

	assert.Equal(t, []byte{2, 3, 4}, p.Rest())
	assert.Equal(t, 0, p.Remaining())
	assert.Empty(t, p.Rest())
}

func TestCheckFinished(t *testing.T) {
	p := New([]byte{1, 2})
	_, err := p.Next(1)
	require.NoError(t, err)

	err = p.CheckFinished()
	var trailing TrailingDataError
	require.ErrorAs(t, err, &trailing)
	assert.Equal(t, 1, trailing.Count)

	_, err = p.Next(1)
	require.NoError(t, err)
	assert.NoError(t, p.CheckFinished())
}

func TestLenAndIsEmpty(t *testing.T) {
	assert.True(t, New(nil).IsEmpty())
	assert.Equal(t, 0, New(nil).Len())

	p := New([]byte{1, 2, 3})
	assert.False(t, p.IsEmpty())
	assert.Equal(t, 3, p.Len())
	_, err := p.Next(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len()) // Len is total, not remaining
}

func TestTraceDoesNotAffectOutcome(t *testing.T) {
	data := []byte{0xfd, 0x01, 0x01, 0xaa}

	plain := New(data)
	traced := New(data)
	traced.SetLogger(slogt.New(t))
	traced.Trace("start")

	v1, err1 := ReadCompactSize(plain)
	v2, err2 := ReadCompactSize(traced)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, plain.Remaining(), traced.Remaining())
}
