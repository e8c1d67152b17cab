// Package codec frames key-value pairs as checksummed binary records.
//
// Records carry a layout descriptor and the raw bytes of a snapshot; the
// storage package persists them, and the same format can be inspected in
// place with a RecordView.
//
// # Record Format
//
//	[CRC32(4)][KeySize(4)][ValueSize(4)][Timestamp(8)][Key][Value]
//
// All header fields are little-endian. Timestamp is Unix nanoseconds. The
// total size is HeaderSize + len(key) + len(value).
//
// # CRC32
//
// The checksum is the IEEE CRC-32 of every byte after the CRC field, in
// wire order: KeySize, ValueSize, Timestamp, Key, Value. It is computed
// with crc.Crc32 over a byte array view of the encoded record, so it
// matches hash/crc32.ChecksumIEEE of the same bytes.
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	encoded, err := c.Encode([]byte("key"), []byte("value"))
//	if err != nil {
//	    return err
//	}
//
//	record, err := c.Decode(encoded)
//	if err != nil {
//	    return err
//	}
//
//	if err := record.Validate(); err != nil {
//	    return err // Record is corrupted
//	}
//
// A RecordView reads the same fields without copying:
//
//	v := codec.NewRecordView(buffer.New(encoded))
//	if err := v.Verify(); err != nil {
//	    return err
//	}
//	size := v.KeySize().UncheckedRead()
//
// # Errors
//
// Decode and Verify fail with ErrShortRecord when the data cannot hold the
// header or the sizes it declares; Validate and Verify fail with
// ErrCRCMismatch when the contents do not match the stored checksum.
//
// # Thread Safety
//
// RecordCodec instances are safe for concurrent use. Decoded records alias
// the input slice.
package codec
