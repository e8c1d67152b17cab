package prelude

import (
	"github.com/ssargent/embview/pkg/bits"
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/check"
	"github.com/ssargent/embview/pkg/text"
)

// Int is a two's complement signed integer view.
type Int struct {
	storage bits.Storage
	valid   func(int64) bool
}

func NewInt(s bits.Storage) Int {
	return Int{storage: s}
}

func NewIntWith(s bits.Storage, valid func(int64) bool) Int {
	return Int{storage: s, valid: valid}
}

// IntFactory returns the element constructor for byte arrays of
// sizeInBits-wide signed integers.
func IntFactory(order bits.ByteOrder, sizeInBits int) func(buffer.Buffer) Int {
	return func(b buffer.Buffer) Int {
		return NewInt(bits.NewBlock(b, order, sizeInBits))
	}
}

func (n Int) SizeInBits() int { return n.storage.Len() }

func (n Int) IsComplete() bool { return n.storage.IsComplete() }

func (n Int) Ok() bool {
	if !n.IsComplete() {
		return false
	}
	return n.valid == nil || n.valid(n.UncheckedRead())
}

func (n Int) Read() (int64, error) {
	raw, err := n.storage.ReadUInt()
	if err != nil {
		return 0, err
	}
	return signExtend(raw, n.SizeInBits()), nil
}

func (n Int) UncheckedRead() int64 {
	return signExtend(n.storage.UncheckedReadUInt(), n.SizeInBits())
}

func (n Int) UncheckedReadUInt() uint64 {
	return n.storage.UncheckedReadUInt()
}

func (n Int) CouldWriteValue(v int64) bool {
	size := n.SizeInBits()
	if size < bits.MaxBits {
		if size == 0 {
			return v == 0 && (n.valid == nil || n.valid(v))
		}
		lim := int64(1) << uint(size-1)
		if v < -lim || v >= lim {
			return false
		}
	}
	return n.valid == nil || n.valid(v)
}

func (n Int) Write(v int64) error {
	if !n.CouldWriteValue(v) {
		return check.Failf(check.ErrValueOutOfRange, "%d in %d-bit signed view", v, n.SizeInBits())
	}
	return n.storage.WriteUInt(uint64(v) & bits.Mask(n.SizeInBits()))
}

func (n Int) TryToWrite(v int64) bool {
	if !n.CouldWriteValue(v) || !n.IsComplete() || !n.storage.Writable() {
		return false
	}
	n.UncheckedWrite(v)
	return true
}

func (n Int) UncheckedWrite(v int64) {
	n.storage.UncheckedWriteUInt(uint64(v) & bits.Mask(n.SizeInBits()))
}

func (n Int) WriteToTextStream(out *text.OutputStream, opts text.Options) {
	v := n.UncheckedRead()
	out.Write(text.FormatInt(v, opts.NumericBase(), opts.DigitGrouping()))
	if opts.Multiline() && opts.Comments() {
		out.Write("  # ")
		out.Write(text.FormatInt(v, 16, opts.DigitGrouping()))
	}
}

func (n Int) UpdateFromTextStream(in *text.InputStream) bool {
	v, ok := text.DecodeInt(in.Read())
	if !ok {
		return false
	}
	return n.TryToWrite(v)
}

func signExtend(raw uint64, size int) int64 {
	if size <= 0 {
		return 0
	}
	if size >= bits.MaxBits {
		return int64(raw)
	}
	shift := uint(bits.MaxBits - size)
	return int64(raw<<shift) >> shift
}
