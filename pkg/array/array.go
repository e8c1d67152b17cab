// Package array presents a buffer as an indexable sequence of fixed-width
// elements.
//
// Byte arrays index a buffer.Buffer in whole bytes; bit arrays index a
// bits.Storage in bits, so elements may be narrower than a byte. Either way
// elements are built lazily on indexing and every accessor recomputes its
// bounds from the live storage length.
package array

import (
	"github.com/cockroachdb/errors"

	"github.com/ssargent/embview/pkg/bits"
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/check"
	"github.com/ssargent/embview/pkg/view"
)

// Storage is what an array can index: buffer.Buffer (unit: byte) or
// bits.Storage (unit: bit).
type Storage[S any] interface {
	Ok() bool
	// Len is the size in addressable units.
	Len() int
	SizeInBytes() int
	UncheckedByteAt(i int) byte
	Window(offset, size int) S
}

// Source is a linear sequence of values an array can be copied from.
type Source[T any] interface {
	ElementCount() int
	IsComplete() bool
	ValueAt(i int) (T, error)
	UncheckedValueAt(i int) T
}

// GenericView is an array of E elements, each elementSize units wide.
type GenericView[E view.Element[T], T any, S Storage[S]] struct {
	storage     S
	elementSize int
	newElement  func(S) E
}

// New returns a byte array whose elements are elementSize bytes wide.
func New[E view.Element[T], T any](buf buffer.Buffer, elementSize int, newElement func(buffer.Buffer) E) GenericView[E, T, buffer.Buffer] {
	return newView[E, T](buf, elementSize, newElement)
}

// NewBits returns a bit array whose elements are elementBits wide.
func NewBits[E view.Element[T], T any](s bits.Storage, elementBits int, newElement func(bits.Storage) E) GenericView[E, T, bits.Storage] {
	return newView[E, T](s, elementBits, newElement)
}

func newView[E view.Element[T], T any, S Storage[S]](s S, elementSize int, newElement func(S) E) GenericView[E, T, S] {
	if elementSize <= 0 {
		check.Violation("array: element size %d", elementSize)
	}
	return GenericView[E, T, S]{storage: s, elementSize: elementSize, newElement: newElement}
}

// BackingStorage returns the storage the array indexes.
func (v GenericView[E, T, S]) BackingStorage() S { return v.storage }

// ElementSize is the width of one element in addressable units.
func (v GenericView[E, T, S]) ElementSize() int { return v.elementSize }

// SizeInUnits is the storage length in addressable units.
func (v GenericView[E, T, S]) SizeInUnits() int { return v.storage.Len() }

// SizeInBytes is a checked view of the storage size in bytes. Bit arrays
// round up to whole bytes.
func (v GenericView[E, T, S]) SizeInBytes() view.Size {
	return view.NewSize(v.storage.SizeInBytes(), v.storage.Ok())
}

// ElementCount is the number of whole elements that fit in the storage.
func (v GenericView[E, T, S]) ElementCount() int {
	return v.storage.Len() / v.elementSize
}

// ElementAt returns the view of element i. It does not check i; an element
// past the end reports IsComplete() == false.
func (v GenericView[E, T, S]) ElementAt(i int) E {
	return v.newElement(v.storage.Window(i*v.elementSize, v.elementSize))
}

// IsComplete reports whether the storage holds a whole number of elements,
// all of which lie inside the backing buffer.
func (v GenericView[E, T, S]) IsComplete() bool {
	if !v.storage.Ok() || v.storage.Len()%v.elementSize != 0 {
		return false
	}
	n := v.ElementCount()
	return n == 0 || v.ElementAt(n-1).IsComplete()
}

// Ok reports whether the array is complete and every element is Ok. An
// empty array over a valid buffer is Ok.
func (v GenericView[E, T, S]) Ok() bool {
	if !v.IsComplete() {
		return false
	}
	for i, n := 0, v.ElementCount(); i < n; i++ {
		if !v.ElementAt(i).Ok() {
			return false
		}
	}
	return true
}

func (v GenericView[E, T, S]) ValueAt(i int) (T, error) {
	return v.ElementAt(i).Read()
}

func (v GenericView[E, T, S]) UncheckedValueAt(i int) T {
	return v.ElementAt(i).UncheckedRead()
}

// Values reads every element.
func (v GenericView[E, T, S]) Values() ([]T, error) {
	out := make([]T, v.ElementCount())
	for i := range out {
		val, err := v.ValueAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// UncheckedByteAt returns byte i of the backing storage.
func (v GenericView[E, T, S]) UncheckedByteAt(i int) byte {
	return v.storage.UncheckedByteAt(i)
}

// Equal reports whether other has the same element count and values. Both
// sides must be complete. T must be comparable at run time.
func (v GenericView[E, T, S]) Equal(other Source[T]) bool {
	if !v.IsComplete() || !other.IsComplete() {
		return false
	}
	return v.UncheckedEqual(other)
}

// UncheckedEqual is Equal without the completeness checks.
func (v GenericView[E, T, S]) UncheckedEqual(other Source[T]) bool {
	n := v.ElementCount()
	if n != other.ElementCount() {
		return false
	}
	for i := 0; i < n; i++ {
		if any(v.UncheckedValueAt(i)) != any(other.UncheckedValueAt(i)) {
			return false
		}
	}
	return true
}

// CopyFrom writes src into the array. src must have exactly ElementCount
// values and every value must be representable; otherwise nothing is
// written and the failure goes through the check policy.
func (v GenericView[E, T, S]) CopyFrom(src []T) error {
	get := func(i int) T { return src[i] }
	if err := v.validateCopy(len(src), get); err != nil {
		return check.Fail(err)
	}
	v.writeAll(len(src), get)
	return nil
}

// UncheckedCopyFrom writes src element by element without checking sizes
// or values. Values are truncated to the element width.
func (v GenericView[E, T, S]) UncheckedCopyFrom(src []T) {
	for i, val := range src {
		v.ElementAt(i).UncheckedWrite(val)
	}
}

// TryToCopyFrom is CopyFrom that reports failure as false instead of
// consulting the check policy. The array is untouched on failure.
func (v GenericView[E, T, S]) TryToCopyFrom(src []T) bool {
	get := func(i int) T { return src[i] }
	if v.validateCopy(len(src), get) != nil {
		return false
	}
	v.writeAll(len(src), get)
	return true
}

// CopyFromView is CopyFrom for another array (or any Source).
func (v GenericView[E, T, S]) CopyFromView(src Source[T]) error {
	if !src.IsComplete() {
		return check.Failf(check.ErrIncomplete, "copy source")
	}
	n := src.ElementCount()
	if err := v.validateCopy(n, src.UncheckedValueAt); err != nil {
		return check.Fail(err)
	}
	v.writeAll(n, src.UncheckedValueAt)
	return nil
}

func (v GenericView[E, T, S]) UncheckedCopyFromView(src Source[T]) {
	for i, n := 0, src.ElementCount(); i < n; i++ {
		v.ElementAt(i).UncheckedWrite(src.UncheckedValueAt(i))
	}
}

func (v GenericView[E, T, S]) TryToCopyFromView(src Source[T]) bool {
	if !src.IsComplete() {
		return false
	}
	n := src.ElementCount()
	if v.validateCopy(n, src.UncheckedValueAt) != nil {
		return false
	}
	v.writeAll(n, src.UncheckedValueAt)
	return true
}

// validateCopy returns plain errors; callers decide whether the policy
// sees them.
func (v GenericView[E, T, S]) validateCopy(n int, get func(int) T) error {
	if !v.storage.Ok() {
		return check.ErrInvalidBuffer
	}
	if count := v.ElementCount(); n != count {
		return errors.Wrapf(check.ErrSizeMismatch, "source has %d elements, destination %d", n, count)
	}
	if !writable(v.storage) {
		return check.ErrReadOnly
	}
	for i := 0; i < n; i++ {
		e := v.ElementAt(i)
		if !e.IsComplete() {
			return errors.Wrapf(check.ErrIncomplete, "element %d", i)
		}
		if !e.CouldWriteValue(get(i)) {
			return errors.Wrapf(check.ErrValueOutOfRange, "element %d", i)
		}
	}
	return nil
}

func (v GenericView[E, T, S]) writeAll(n int, get func(int) T) {
	for i := 0; i < n; i++ {
		v.ElementAt(i).UncheckedWrite(get(i))
	}
}

func writable(s any) bool {
	switch s := s.(type) {
	case buffer.Writable:
		return true
	case interface{ Writable() bool }:
		return s.Writable()
	default:
		return false
	}
}
