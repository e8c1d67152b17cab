// Package view defines the contracts shared by element views, arrays and
// the routines that consume them.
package view

import (
	"github.com/ssargent/embview/pkg/check"
)

// Element is a transient accessor bound to one value inside a buffer.
//
// Read and Write validate the range first and fail through the check
// policy. UncheckedRead and UncheckedWrite trust that the caller already
// proved IsComplete.
type Element[T any] interface {
	Read() (T, error)
	UncheckedRead() T
	Write(v T) error
	UncheckedWrite(v T)
	// CouldWriteValue reports whether v is representable by the element.
	CouldWriteValue(v T) bool
	Ok() bool
	IsComplete() bool
}

// Integral is implemented by integer element views. Arrays of 8-bit
// integral elements get a printable preview in commented text output.
type Integral interface {
	SizeInBits() int
	UncheckedReadUInt() uint64
}

// Size is a read-only numeric view, so sizes are read the same way element
// values are.
type Size struct {
	value int
	ok    bool
}

// NewSize returns a Size holding value. ok false marks a size derived from
// an invalid buffer.
func NewSize(value int, ok bool) Size {
	return Size{value: value, ok: ok}
}

func (s Size) Ok() bool { return s.ok }

func (s Size) IsComplete() bool { return s.ok }

func (s Size) Read() (int, error) {
	if !s.ok {
		return 0, check.Fail(check.ErrInvalidBuffer)
	}
	return s.value, nil
}

func (s Size) UncheckedRead() int { return s.value }
