package parser

import (
	"encoding/hex"
	"fmt"
	"log/slog"
)

// tracePreviewLen limits how many upcoming bytes are shown in trace output.
const tracePreviewLen = 100

// Parser is a bounded reader over a caller-owned byte buffer. It keeps the
// buffer immutable and tracks the current offset. The offset advances only on
// successful reads, a failed read leaves the parser exactly where it was.
//
// Parser does not own the buffer and must not be used after the buffer is
// modified by the caller. Multiple parsers may read the same buffer
// concurrently, a single Parser value is not safe for concurrent use.
type Parser struct {
	buf []byte
	off int
	log *slog.Logger
}

// New creates a Parser positioned at the start of data.
func New(data []byte) *Parser {
	return &Parser{buf: data}
}

// SetLogger enables trace logging of every read. Tracing is purely
// observational and never changes decode outcomes. Pass nil to disable.
func (p *Parser) SetLogger(log *slog.Logger) {
	p.log = log
}

// Len returns the total length of the underlying buffer.
func (p *Parser) Len() int {
	return len(p.buf)
}

// IsEmpty reports whether the underlying buffer has zero length.
func (p *Parser) IsEmpty() bool {
	return len(p.buf) == 0
}

// Remaining returns the number of bytes left to read.
func (p *Parser) Remaining() int {
	return len(p.buf) - p.off
}

// Next returns the next n bytes and advances the offset. The returned slice
// is a copy, it does not alias the underlying buffer. If fewer than n bytes
// remain the offset is left unchanged and a BufferUnderflowError is returned.
//
// A negative n is a programmer error and panics.
func (p *Parser) Next(n int) ([]byte, error) {
	if n < 0 {
		panic(fmt.Sprintf("parser: negative read size %d", n))
	}
	if n > p.Remaining() {
		return nil, BufferUnderflowError{Requested: n, Available: p.Remaining()}
	}
	out := make([]byte, n)
	copy(out, p.buf[p.off:])
	p.off += n
	if p.log != nil {
		p.log.Debug("next",
			slog.Int("n", n),
			slog.String("bytes", hex.EncodeToString(out)),
			slog.Int("remaining", p.Remaining()),
			slog.String("peek", hex.EncodeToString(p.Peek(tracePreviewLen))),
		)
	}
	return out, nil
}

// Peek returns up to n of the upcoming bytes without advancing the offset.
// The result is truncated to the remaining length and is a copy.
func (p *Parser) Peek(n int) []byte {
	if n < 0 {
		panic(fmt.Sprintf("parser: negative peek size %d", n))
	}
	if r := p.Remaining(); n > r {
		n = r
	}
	out := make([]byte, n)
	copy(out, p.buf[p.off:])
	return out
}

// Rest consumes and returns all remaining bytes.
func (p *Parser) Rest() []byte {
	out, err := p.Next(p.Remaining())
	if err != nil {
		// Remaining bytes are always available.
		panic(err)
	}
	return out
}

// PeekRest returns a copy of all remaining bytes without advancing.
func (p *Parser) PeekRest() []byte {
	return p.Peek(p.Remaining())
}

// CheckFinished returns a TrailingDataError if any bytes are left unread.
// Top level decodes use it to require whole-buffer consumption.
func (p *Parser) CheckFinished() error {
	if r := p.Remaining(); r > 0 {
		return TrailingDataError{Count: r}
	}
	return nil
}

// Trace emits a trace message with a preview of the remaining bytes. It is a
// no-op unless a logger was set.
func (p *Parser) Trace(msg string) {
	if p.log != nil {
		p.log.Debug(msg,
			slog.Int("offset", p.off),
			slog.String("peek", hex.EncodeToString(p.Peek(tracePreviewLen))),
		)
	}
}
