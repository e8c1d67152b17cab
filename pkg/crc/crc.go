// Package crc computes checksums over array views.
package crc

import (
	"github.com/ssargent/embview/pkg/view"
)

// Polynomial is the reflected IEEE 802.3 CRC-32 polynomial.
const Polynomial = 0xEDB88320

// ByteView is anything with a byte size and unchecked byte access, such as
// an array of 8-bit elements.
type ByteView interface {
	SizeInBytes() view.Size
	UncheckedByteAt(i int) byte
}

// table is built at package init and never written after.
var table = makeTable(Polynomial)

func makeTable(poly uint32) *[256]uint32 {
	var t [256]uint32
	for i := range t {
		r := uint32(i)
		for j := 0; j < 8; j++ {
			if r&1 != 0 {
				r = r>>1 ^ poly
			} else {
				r >>= 1
			}
		}
		t[i] = r
	}
	return &t
}

// TableEntry returns the precomputed remainder for b.
func TableEntry(b byte) uint32 { return table[b] }

// Crc32 returns the IEEE CRC-32 of the bytes v covers. An invalid view
// fails through the check policy and yields 0.
func Crc32(v ByteView) (uint32, error) {
	n, err := v.SizeInBytes().Read()
	if err != nil {
		return 0, err
	}
	return Update(0, v, n), nil
}

// Update continues crc over the first n bytes of v.
func Update(crc uint32, v ByteView, n int) uint32 {
	r := ^crc
	for i := 0; i < n; i++ {
		r = table[byte(r)^v.UncheckedByteAt(i)] ^ r>>8
	}
	return ^r
}

// Bytes adapts a plain slice to ByteView.
type Bytes []byte

func (b Bytes) SizeInBytes() view.Size     { return view.NewSize(len(b), b != nil) }
func (b Bytes) UncheckedByteAt(i int) byte { return b[i] }
