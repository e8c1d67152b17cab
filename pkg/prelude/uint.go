// Package prelude provides the scalar element views: unsigned and signed
// integers and single-bit flags, each bound to a bits.Storage.
package prelude

import (
	"github.com/ssargent/embview/pkg/bits"
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/check"
	"github.com/ssargent/embview/pkg/text"
)

// UInt is an unsigned integer view.
type UInt struct {
	storage bits.Storage
	valid   func(uint64) bool
}

// NewUInt returns a view that accepts every value that fits in s.
func NewUInt(s bits.Storage) UInt {
	return UInt{storage: s}
}

// NewUIntWith returns a view whose Ok also requires valid(value).
func NewUIntWith(s bits.Storage, valid func(uint64) bool) UInt {
	return UInt{storage: s, valid: valid}
}

// UIntFactory returns the element constructor for byte arrays of
// sizeInBits-wide unsigned integers.
func UIntFactory(order bits.ByteOrder, sizeInBits int) func(buffer.Buffer) UInt {
	return func(b buffer.Buffer) UInt {
		return NewUInt(bits.NewBlock(b, order, sizeInBits))
	}
}

func (u UInt) SizeInBits() int { return u.storage.Len() }

func (u UInt) IsComplete() bool { return u.storage.IsComplete() }

func (u UInt) Ok() bool {
	if !u.IsComplete() {
		return false
	}
	return u.valid == nil || u.valid(u.UncheckedRead())
}

func (u UInt) Read() (uint64, error) {
	return u.storage.ReadUInt()
}

func (u UInt) UncheckedRead() uint64 {
	return u.storage.UncheckedReadUInt()
}

func (u UInt) UncheckedReadUInt() uint64 {
	return u.storage.UncheckedReadUInt()
}

func (u UInt) CouldWriteValue(v uint64) bool {
	return bits.Fits(v, u.SizeInBits()) && (u.valid == nil || u.valid(v))
}

func (u UInt) Write(v uint64) error {
	if !u.CouldWriteValue(v) {
		return check.Failf(check.ErrValueOutOfRange, "%d in %d-bit unsigned view", v, u.SizeInBits())
	}
	return u.storage.WriteUInt(v)
}

// TryToWrite writes v when the view is complete, writable and v is
// representable, and reports whether it did.
func (u UInt) TryToWrite(v uint64) bool {
	if !u.CouldWriteValue(v) || !u.IsComplete() || !u.storage.Writable() {
		return false
	}
	u.UncheckedWrite(v)
	return true
}

func (u UInt) UncheckedWrite(v uint64) {
	u.storage.UncheckedWriteUInt(v & bits.Mask(u.SizeInBits()))
}

func (u UInt) WriteToTextStream(out *text.OutputStream, opts text.Options) {
	v := u.UncheckedRead()
	out.Write(text.FormatUint(v, opts.NumericBase(), opts.DigitGrouping()))
	if opts.Multiline() && opts.Comments() {
		out.Write("  # ")
		out.Write(text.FormatUint(v, 16, opts.DigitGrouping()))
	}
}

func (u UInt) UpdateFromTextStream(in *text.InputStream) bool {
	v, ok := text.DecodeUint(in.Read())
	if !ok {
		return false
	}
	return u.TryToWrite(v)
}
