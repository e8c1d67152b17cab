package codec

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/embview/pkg/array"
	"github.com/ssargent/embview/pkg/bits"
	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/crc"
	"github.com/ssargent/embview/pkg/prelude"
)

// HeaderSize is CRC32(4) + KeySize(4) + ValueSize(4) + Timestamp(8).
const HeaderSize = 20

var (
	// ErrShortRecord is returned when data cannot hold the header or the
	// key and value sizes it declares.
	ErrShortRecord = errors.New("codec: record too short")
	// ErrCRCMismatch is returned when the stored checksum does not match
	// the record contents.
	ErrCRCMismatch = errors.New("codec: CRC32 mismatch")
)

// Bytes is an array of single-byte elements.
type Bytes = array.GenericView[prelude.UInt, uint64, buffer.Buffer]

// NewBytes returns a byte array over buf.
func NewBytes(buf buffer.Buffer) Bytes {
	return array.New[prelude.UInt, uint64](buf, 1, prelude.UIntFactory(bits.LittleEndian, 8))
}

// Record represents a key-value record with metadata for storage
type Record struct {
	CRC32     uint32 // CRC32 checksum for integrity
	KeySize   uint32 // Size of the key in bytes
	ValueSize uint32 // Size of the value in bytes
	Timestamp uint64 // Unix timestamp in nanoseconds
	Key       []byte // Key data
	Value     []byte // Value data
}

// RecordView is a zero-copy view of an encoded record. Field views are
// built on demand from the buffer, so a view over a truncated record is
// valid to construct and reports Complete() == false.
type RecordView struct {
	buf buffer.Buffer
}

// NewRecordView returns a view of the record at the start of buf.
func NewRecordView(buf buffer.Buffer) RecordView {
	return RecordView{buf: buf}
}

func (v RecordView) field(offset, size int) prelude.UInt {
	return prelude.NewUInt(bits.NewBlock(v.buf.Window(offset, size), bits.LittleEndian, size*8))
}

func (v RecordView) CRC32() prelude.UInt     { return v.field(0, 4) }
func (v RecordView) KeySize() prelude.UInt   { return v.field(4, 4) }
func (v RecordView) ValueSize() prelude.UInt { return v.field(8, 4) }
func (v RecordView) Timestamp() prelude.UInt { return v.field(12, 8) }

// Key returns the key bytes. The header must be complete. The array covers
// the declared key size even when the buffer is shorter, in which case it
// reports IsComplete() == false.
func (v RecordView) Key() Bytes {
	return NewBytes(v.buf.Extent(HeaderSize, int(v.KeySize().UncheckedRead())))
}

// Value returns the value bytes. Like Key it keeps the declared size.
func (v RecordView) Value() Bytes {
	offset := HeaderSize + int(v.KeySize().UncheckedRead())
	return NewBytes(v.buf.Extent(offset, int(v.ValueSize().UncheckedRead())))
}

// Checksummed returns every byte the CRC covers: the header after the CRC
// field, the key and the value.
func (v RecordView) Checksummed() Bytes {
	return NewBytes(v.buf.Extent(4, v.SizeInBytes()-4))
}

// SizeInBytes is the encoded size the header declares. The header must be
// complete.
func (v RecordView) SizeInBytes() int {
	return HeaderSize + int(v.KeySize().UncheckedRead()) + int(v.ValueSize().UncheckedRead())
}

// Complete reports whether the buffer holds the header and everything it
// declares.
func (v RecordView) Complete() bool {
	if !v.Timestamp().IsComplete() {
		return false
	}
	return v.buf.Available() >= v.SizeInBytes()
}

// Verify checks that the record is complete and its CRC matches.
func (v RecordView) Verify() error {
	if !v.Complete() {
		return errors.Wrapf(ErrShortRecord, "%d bytes", v.buf.Available())
	}
	sum, err := crc.Crc32(v.Checksummed())
	if err != nil {
		return err
	}
	if stored := uint32(v.CRC32().UncheckedRead()); stored != sum {
		return errors.Wrapf(ErrCRCMismatch, "%d != %d", stored, sum)
	}
	return nil
}

// RecordCodec handles serialization and deserialization of records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Encode serializes a key-value pair into a binary record format
// Format: [CRC32(4)][KeySize(4)][ValueSize(4)][Timestamp(8)][Key][Value]
func (c *RecordCodec) Encode(key, value []byte) ([]byte, error) {
	r := NewRecord(key, value)
	buf := r.encode()
	r.CRC32 = uint32(NewRecordView(buffer.New(buf)).CRC32().UncheckedRead())
	return buf, nil
}

// Decode deserializes a binary record into a Record struct. Key and Value
// alias data.
func (c *RecordCodec) Decode(data []byte) (*Record, error) {
	if len(data) < HeaderSize {
		return nil, errors.Wrap(ErrShortRecord, "data too short for record header")
	}

	v := NewRecordView(buffer.New(data))
	if !v.Complete() {
		return nil, errors.Wrapf(ErrShortRecord, "data too short for key/value sizes: %d < %d", len(data), v.SizeInBytes())
	}

	r := &Record{
		CRC32:     uint32(v.CRC32().UncheckedRead()),
		KeySize:   uint32(v.KeySize().UncheckedRead()),
		ValueSize: uint32(v.ValueSize().UncheckedRead()),
		Timestamp: v.Timestamp().UncheckedRead(),
	}
	r.Key = data[HeaderSize : HeaderSize+r.KeySize]
	r.Value = data[HeaderSize+r.KeySize : HeaderSize+r.KeySize+r.ValueSize]

	return r, nil
}

// Validate checks the integrity of a record using CRC32
func (r *Record) Validate() error {
	if sum := r.calculateCRC32(); r.CRC32 != sum {
		return errors.Wrapf(ErrCRCMismatch, "%d != %d", r.CRC32, sum)
	}

	return nil
}

// Size returns the total size of the record when encoded
func (r *Record) Size() int {
	return HeaderSize + len(r.Key) + len(r.Value)
}

// NewRecord creates a new record with current timestamp
func NewRecord(key, value []byte) *Record {
	keyLen := len(key)
	valLen := len(value)
	if uint64(keyLen) > uint64(^uint32(0)) {
		panic("key too large")
	}
	if uint64(valLen) > uint64(^uint32(0)) {
		panic("value too large")
	}
	return &Record{
		KeySize:   uint32(keyLen),
		ValueSize: uint32(valLen),
		Timestamp: uint64(time.Now().UnixNano()),
		Key:       key,
		Value:     value,
	}
}

// encode writes r through a RecordView and fills in the CRC field of the
// output. r.CRC32 is left as is.
func (r *Record) encode() []byte {
	data := make([]byte, r.Size())
	v := NewRecordView(buffer.New(data))

	v.KeySize().UncheckedWrite(uint64(len(r.Key)))
	v.ValueSize().UncheckedWrite(uint64(len(r.Value)))
	v.Timestamp().UncheckedWrite(r.Timestamp)
	copy(data[HeaderSize:], r.Key)
	copy(data[HeaderSize+len(r.Key):], r.Value)

	sum := crc.Update(0, v.Checksummed(), len(data)-4)
	v.CRC32().UncheckedWrite(uint64(sum))
	return data
}

// calculateCRC32 computes CRC32 checksum for record data (excluding the CRC field itself)
func (r *Record) calculateCRC32() uint32 {
	data := r.encode()
	return uint32(NewRecordView(buffer.New(data)).CRC32().UncheckedRead())
}
