// Package bits interprets runs of bits inside a buffer as unsigned integers.
//
// A Block is a byte-aligned container of up to 64 bits read in a given byte
// order. An Offset is a sub-field of another Storage, addressed by its bit
// offset from the least significant bit of the parent value. Offsets nest,
// which is how bit-packed arrays hand out elements narrower than a byte.
package bits

import (
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/check"
)

// ByteOrder selects how a Block assembles its bytes into a value.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// String returns the configuration name of the byte order.
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// MaxBits is the widest value a Storage can hold.
const MaxBits = 64

// Storage is the bit-level capability integer views are built on.
type Storage interface {
	Ok() bool
	// IsComplete reports whether every bit lies inside the backing buffer.
	IsComplete() bool
	// Writable reports whether the backing buffer accepts writes.
	Writable() bool
	// Len is the width in bits, the addressable unit of a Storage.
	Len() int
	SizeInBytes() int
	ReadUInt() (uint64, error)
	UncheckedReadUInt() uint64
	WriteUInt(v uint64) error
	UncheckedWriteUInt(v uint64)
	// UncheckedByteAt returns byte i of the stored value, least significant
	// byte first for sub-fields and buffer order for blocks.
	UncheckedByteAt(i int) byte
	// Window returns the sub-field of size bits starting offset bits above
	// the least significant bit.
	Window(offset, size int) Storage
}

// Mask returns a value with the low n bits set.
func Mask(n int) uint64 {
	if n >= MaxBits {
		return ^uint64(0)
	}
	return uint64(1)<<uint(n) - 1
}

// Fits reports whether v can be stored in n bits.
func Fits(v uint64, n int) bool {
	return v&^Mask(n) == 0
}

// Block is a whole-byte container read in a fixed byte order.
type Block struct {
	buf   buffer.Buffer
	order ByteOrder
	size  int
}

// NewBlock returns a container of sizeInBits over the start of buf.
// sizeInBits must be a multiple of 8 no larger than 64.
func NewBlock(buf buffer.Buffer, order ByteOrder, sizeInBits int) Block {
	if sizeInBits < 0 || sizeInBits > MaxBits || sizeInBits%8 != 0 {
		check.Violation("bits: block of %d bits", sizeInBits)
	}
	return Block{buf: buf, order: order, size: sizeInBits}
}

// Order returns the block's byte order.
func (b Block) Order() ByteOrder { return b.order }

func (b Block) Ok() bool { return b.buf != nil && b.buf.Ok() }

func (b Block) IsComplete() bool {
	return b.Ok() && b.buf.Available() >= b.SizeInBytes()
}

func (b Block) Writable() bool {
	_, ok := b.buf.(buffer.Writable)
	return ok
}

func (b Block) Len() int { return b.size }

func (b Block) SizeInBytes() int { return b.size / 8 }

func (b Block) ReadUInt() (uint64, error) {
	if err := b.checkAccess(); err != nil {
		return 0, err
	}
	return b.UncheckedReadUInt(), nil
}

func (b Block) UncheckedReadUInt() uint64 {
	n := b.SizeInBytes()
	var v uint64
	for i := 0; i < n; i++ {
		if b.order == BigEndian {
			v = v<<8 | uint64(b.buf.UncheckedByteAt(i))
		} else {
			v |= uint64(b.buf.UncheckedByteAt(i)) << uint(8*i)
		}
	}
	return v
}

func (b Block) WriteUInt(v uint64) error {
	if err := b.checkAccess(); err != nil {
		return err
	}
	if !b.Writable() {
		return check.Fail(check.ErrReadOnly)
	}
	if !Fits(v, b.size) {
		return check.Failf(check.ErrValueOutOfRange, "%d does not fit in %d bits", v, b.size)
	}
	b.UncheckedWriteUInt(v)
	return nil
}

func (b Block) UncheckedWriteUInt(v uint64) {
	w, ok := b.buf.(buffer.Writable)
	if !ok {
		check.Violation("bits: unchecked write through a read-only buffer")
	}
	n := b.SizeInBytes()
	for i := 0; i < n; i++ {
		if b.order == BigEndian {
			w.UncheckedSetByteAt(n-1-i, byte(v>>uint(8*i)))
		} else {
			w.UncheckedSetByteAt(i, byte(v>>uint(8*i)))
		}
	}
}

func (b Block) UncheckedByteAt(i int) byte {
	return b.buf.UncheckedByteAt(i)
}

func (b Block) Window(offset, size int) Storage {
	return NewOffset(b, offset, size)
}

func (b Block) checkAccess() error {
	if !b.Ok() {
		return check.Fail(check.ErrInvalidBuffer)
	}
	if !b.IsComplete() {
		return check.Failf(check.ErrIncomplete, "%d-byte block over %d bytes", b.SizeInBytes(), b.buf.Available())
	}
	return nil
}

// Offset is a sub-field of a parent Storage.
type Offset struct {
	parent Storage
	offset int
	size   int
}

// NewOffset returns the size-bit field starting offset bits into parent.
func NewOffset(parent Storage, offset, size int) Offset {
	if offset < 0 || size < 0 || size > MaxBits {
		check.Violation("bits: field of %d bits at offset %d", size, offset)
	}
	return Offset{parent: parent, offset: offset, size: size}
}

func (o Offset) Ok() bool { return o.parent != nil && o.parent.Ok() }

func (o Offset) IsComplete() bool {
	return o.Ok() && o.parent.IsComplete() && o.offset+o.size <= o.parent.Len()
}

func (o Offset) Writable() bool { return o.parent.Writable() }

func (o Offset) Len() int { return o.size }

func (o Offset) SizeInBytes() int { return (o.size + 7) / 8 }

func (o Offset) ReadUInt() (uint64, error) {
	if err := o.checkAccess(); err != nil {
		return 0, err
	}
	return o.UncheckedReadUInt(), nil
}

func (o Offset) UncheckedReadUInt() uint64 {
	if o.offset >= MaxBits {
		return 0
	}
	return (o.parent.UncheckedReadUInt() >> uint(o.offset)) & Mask(o.size)
}

func (o Offset) WriteUInt(v uint64) error {
	if err := o.checkAccess(); err != nil {
		return err
	}
	if !o.Writable() {
		return check.Fail(check.ErrReadOnly)
	}
	if !Fits(v, o.size) {
		return check.Failf(check.ErrValueOutOfRange, "%d does not fit in %d bits", v, o.size)
	}
	o.UncheckedWriteUInt(v)
	return nil
}

func (o Offset) UncheckedWriteUInt(v uint64) {
	if o.offset >= MaxBits {
		return
	}
	m := Mask(o.size) << uint(o.offset)
	p := o.parent.UncheckedReadUInt()
	o.parent.UncheckedWriteUInt(p&^m | (v<<uint(o.offset))&m)
}

func (o Offset) UncheckedByteAt(i int) byte {
	if i >= 8 {
		return 0
	}
	return byte(o.UncheckedReadUInt() >> uint(8*i))
}

func (o Offset) Window(offset, size int) Storage {
	return NewOffset(o, offset, size)
}

func (o Offset) checkAccess() error {
	if !o.Ok() {
		return check.Fail(check.ErrInvalidBuffer)
	}
	if !o.IsComplete() {
		return check.Failf(check.ErrIncomplete, "%d bits at offset %d of %d", o.size, o.offset, o.parent.Len())
	}
	return nil
}
