package storage

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/embview/pkg/array"
	"github.com/ssargent/embview/pkg/bits"
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/prelude"
	"github.com/ssargent/embview/pkg/text"
)

// Layout describes how a snapshot's bytes are split into integer elements.
type Layout struct {
	Bits   int    `cbor:"1,keyasint"`
	Signed bool   `cbor:"2,keyasint,omitempty"`
	Order  string `cbor:"3,keyasint,omitempty"`
}

// Snapshot is a named copy of a buffer.
type Snapshot struct {
	Name     string
	Layout   Layout
	Data     []byte
	StoredAt time.Time
}

// Entry summarizes a stored snapshot.
type Entry struct {
	ID        ksuid.KSUID
	Name      string
	Layout    Layout
	Size      int
	CreatedAt time.Time
	Corrupt   bool
}

// View is an array over a snapshot's bytes.
type View interface {
	text.Writer
	text.Updater
	ElementCount() int
	IsComplete() bool
	Ok() bool
}

// ParseOrder maps "little" (or "") and "big" to a byte order.
func ParseOrder(name string) (bits.ByteOrder, error) {
	switch name {
	case "", "little":
		return bits.LittleEndian, nil
	case "big":
		return bits.BigEndian, nil
	default:
		return bits.LittleEndian, errors.Newf("unknown byte order %q", name)
	}
}

// Validate reports whether the layout can be viewed.
func (l Layout) Validate() error {
	if l.Bits < 1 || l.Bits > bits.MaxBits {
		return errors.Newf("layout: element width %d not in [1, %d]", l.Bits, bits.MaxBits)
	}
	_, err := ParseOrder(l.Order)
	return errors.Wrap(err, "layout")
}

// String is a short form such as "u8", "s16be" or "u3".
func (l Layout) String() string {
	sign := "u"
	if l.Signed {
		sign = "s"
	}
	suffix := ""
	if l.Order == "big" {
		suffix = "be"
	}
	return fmt.Sprintf("%s%d%s", sign, l.Bits, suffix)
}

// View returns the array view of buf under l. Whole-byte widths make a
// byte array of any length. Other widths make a bit array, which needs the
// whole buffer to fit in a single 64-bit container.
func (l Layout) View(buf buffer.Buffer) (View, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	order, _ := ParseOrder(l.Order)

	if l.Bits%8 == 0 {
		if l.Signed {
			return array.New[prelude.Int, int64](buf, l.Bits/8, prelude.IntFactory(order, l.Bits)), nil
		}
		return array.New[prelude.UInt, uint64](buf, l.Bits/8, prelude.UIntFactory(order, l.Bits)), nil
	}

	if buf.Len()*8 > bits.MaxBits {
		return nil, errors.Newf("layout: %d-bit elements need at most %d bytes, have %d", l.Bits, bits.MaxBits/8, buf.Len())
	}
	container := bits.NewBlock(buf, order, buf.Len()*8)
	if l.Signed {
		return array.NewBits[prelude.Int, int64](container, l.Bits, prelude.NewInt), nil
	}
	return array.NewBits[prelude.UInt, uint64](container, l.Bits, prelude.NewUInt), nil
}
