// Package buffer provides the byte windows that views read and write through.
//
// A buffer never owns memory. It is a value holding a slice header, so
// copies of a buffer (and of every view built on it) alias the same bytes.
// The declared length (Len) is what the window claims to cover; Available
// is how much of it is backed by the caller's slice. The two differ only for
// windows made with Extent past the end of their parent. Checked access
// stops at Available. Unchecked access may reach up to cap(slice), which
// lets callers that know the backing array is larger peek past a shortened
// window the way a pointer would.
package buffer

import (
	"github.com/ssargent/embview/pkg/check"
)

// Buffer is a bounds-known, byte-addressed window.
type Buffer interface {
	// Ok reports whether the handle refers to memory at all.
	Ok() bool
	// Len is the declared length in bytes, the addressable unit of a buffer.
	Len() int
	// Available is the number of declared bytes the slice actually holds.
	Available() int
	// SizeInBytes is the same as Len for byte buffers.
	SizeInBytes() int
	// ByteAt returns byte i after checking it lies inside the window.
	ByteAt(i int) (byte, error)
	// UncheckedByteAt returns byte i without checking the declared length.
	UncheckedByteAt(i int) byte
	// Window returns the sub-window [offset, offset+size), clamped to what
	// the declared length still covers.
	Window(offset, size int) Buffer
	// Extent returns the sub-window [offset, offset+size) without clamping
	// its declared length. Bytes past the end of this buffer are declared
	// but not available, so views over them report incomplete.
	Extent(offset, size int) Buffer
	// Bytes returns the available bytes. The slice aliases the buffer.
	Bytes() []byte
}

// Writable is a Buffer that also accepts writes.
type Writable interface {
	Buffer
	SetByteAt(i int, b byte) error
	UncheckedSetByteAt(i int, b byte)
}

// Contiguous is a read-write window over a byte slice.
type Contiguous struct {
	data []byte
	size int
	ok   bool
}

// New returns a read-write buffer over data. A nil slice yields a buffer
// that is not Ok.
func New(data []byte) Contiguous {
	return Contiguous{data: data, size: len(data), ok: data != nil}
}

// Null returns a buffer that refers to nothing.
func Null() Contiguous {
	return Contiguous{}
}

func (c Contiguous) Ok() bool { return c.ok }
func (c Contiguous) Len() int { return c.size }
func (c Contiguous) Available() int { return len(c.data) }
func (c Contiguous) SizeInBytes() int { return c.size }
func (c Contiguous) Bytes() []byte { return c.data }
func (c Contiguous) ByteAt(i int) (byte, error) {
	return byteAt(c.data, c.ok, i)
}

func (c Contiguous) UncheckedByteAt(i int) byte {
	return c.data[:cap(c.data)][i]
}

func (c Contiguous) Window(offset, size int) Buffer {
	return c.Extent(offset, clampSize(c.size, offset, size))
}

func (c Contiguous) Extent(offset, size int) Buffer {
	data, ok := window(c.data, c.ok, offset, size)
	return Contiguous{data: data, size: size, ok: ok}
}

// ReadOnly returns a read-only buffer over the same bytes.
func (c Contiguous) ReadOnly() ReadOnly {
	return ReadOnly{data: c.data, size: c.size, ok: c.ok}
}

func (c Contiguous) SetByteAt(i int, b byte) error {
	if !c.ok {
		return check.Fail(check.ErrInvalidBuffer)
	}
	if i < 0 || i >= len(c.data) {
		return check.Failf(check.ErrIncomplete, "byte %d of %d", i, len(c.data))
	}
	c.data[i] = b
	return nil
}

func (c Contiguous) UncheckedSetByteAt(i int, b byte) {
	c.data[:cap(c.data)][i] = b
}

// ReadOnly is a window that can only be read.
type ReadOnly struct {
	data []byte
	size int
	ok   bool
}

// NewReadOnly returns a read-only buffer over data.
func NewReadOnly(data []byte) ReadOnly {
	return ReadOnly{data: data, size: len(data), ok: data != nil}
}

func (r ReadOnly) Ok() bool { return r.ok }
func (r ReadOnly) Len() int { return r.size }
func (r ReadOnly) Available() int { return len(r.data) }
func (r ReadOnly) SizeInBytes() int { return r.size }
func (r ReadOnly) Bytes() []byte { return r.data }
func (r ReadOnly) ByteAt(i int) (byte, error) {
	return byteAt(r.data, r.ok, i)
}

func (r ReadOnly) UncheckedByteAt(i int) byte {
	return r.data[:cap(r.data)][i]
}

func (r ReadOnly) Window(offset, size int) Buffer {
	return r.Extent(offset, clampSize(r.size, offset, size))
}

func (r ReadOnly) Extent(offset, size int) Buffer {
	data, ok := window(r.data, r.ok, offset, size)
	return ReadOnly{data: data, size: size, ok: ok}
}

func byteAt(data []byte, ok bool, i int) (byte, error) {
	if !ok {
		return 0, check.Fail(check.ErrInvalidBuffer)
	}
	if i < 0 || i >= len(data) {
		return 0, check.Failf(check.ErrIncomplete, "byte %d of %d", i, len(data))
	}
	return data[i], nil
}

// clampSize limits size to what a buffer of declared length n still covers
// from offset.
func clampSize(n, offset, size int) int {
	if offset < 0 || size < 0 {
		return size
	}
	if avail := n - offset; size > avail {
		size = max(avail, 0)
	}
	return size
}

// window returns the available part of [offset, offset+size). It keeps the
// capacity past the end so unchecked reads of a partial window still reach
// the caller's bytes.
func window(data []byte, ok bool, offset, size int) ([]byte, bool) {
	if !ok || offset < 0 || size < 0 {
		return nil, false
	}
	full := data[:cap(data)]
	if offset > len(full) {
		return full[len(full):], true
	}
	avail := len(data) - offset
	if avail < 0 {
		avail = 0
	}
	if size > avail {
		size = avail
	}
	return full[offset : offset+size], true
}
