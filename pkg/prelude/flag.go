package prelude

import (
	"github.com/ssargent/embview/pkg/bits"
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/text"
)

// Flag is a single-bit boolean view.
type Flag struct {
	storage bits.Storage
}

func NewFlag(s bits.Storage) Flag {
	return Flag{storage: s}
}

// FlagFactory returns the element constructor for byte arrays of flags,
// one flag in the low bit of each byte.
func FlagFactory() func(buffer.Buffer) Flag {
	return func(b buffer.Buffer) Flag {
		return NewFlag(bits.NewBlock(b, bits.LittleEndian, 8).Window(0, 1))
	}
}

func (f Flag) SizeInBits() int { return f.storage.Len() }

func (f Flag) IsComplete() bool { return f.storage.IsComplete() }

func (f Flag) Ok() bool { return f.IsComplete() }

func (f Flag) Read() (bool, error) {
	raw, err := f.storage.ReadUInt()
	return raw != 0, err
}

func (f Flag) UncheckedRead() bool {
	return f.storage.UncheckedReadUInt() != 0
}

func (f Flag) CouldWriteValue(bool) bool { return true }

func (f Flag) Write(v bool) error {
	return f.storage.WriteUInt(flagBit(v))
}

func (f Flag) TryToWrite(v bool) bool {
	if !f.IsComplete() || !f.storage.Writable() {
		return false
	}
	f.UncheckedWrite(v)
	return true
}

func (f Flag) UncheckedWrite(v bool) {
	f.storage.UncheckedWriteUInt(flagBit(v))
}

func (f Flag) WriteToTextStream(out *text.OutputStream, _ text.Options) {
	if f.UncheckedRead() {
		out.Write("true")
	} else {
		out.Write("false")
	}
}

func (f Flag) UpdateFromTextStream(in *text.InputStream) bool {
	switch in.Read() {
	case "true":
		return f.TryToWrite(true)
	case "false":
		return f.TryToWrite(false)
	default:
		return false
	}
}

func flagBit(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
