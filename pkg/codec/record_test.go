package codec

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/embview/pkg/buffer"
)

func TestRecordCodec_EncodeDecodeRoundTrip(t *testing.T) {
	codec := NewRecordCodec()

	testCases := []struct {
		name  string
		key   []byte
		value []byte
	}{
		{name: "simple string key-value", key: []byte("layout:u8"), value: []byte("payload")},
		{name: "empty key", key: []byte(""), value: []byte("some value")},
		{name: "empty value", key: []byte("some key"), value: []byte("")},
		{name: "both empty", key: []byte(""), value: []byte("")},
		{name: "binary data", key: []byte{0x00, 0x01, 0x02, 0x03}, value: []byte{0xFF, 0xFE, 0xFD, 0xFC}},
		{name: "large key", key: bytes.Repeat([]byte("k"), 1024), value: []byte("small value")},
		{name: "large value", key: []byte("small key"), value: bytes.Repeat([]byte("v"), 10240)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := codec.Encode(tc.key, tc.value)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			record, err := codec.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if err := record.Validate(); err != nil {
				t.Fatalf("Record validation failed: %v", err)
			}

			if !bytes.Equal(record.Key, tc.key) {
				t.Errorf("Key mismatch: got %v, want %v", record.Key, tc.key)
			}
			if !bytes.Equal(record.Value, tc.value) {
				t.Errorf("Value mismatch: got %v, want %v", record.Value, tc.value)
			}
			if record.KeySize != uint32(len(tc.key)) {
				t.Errorf("KeySize mismatch: got %d, want %d", record.KeySize, len(tc.key))
			}
			if record.ValueSize != uint32(len(tc.value)) {
				t.Errorf("ValueSize mismatch: got %d, want %d", record.ValueSize, len(tc.value))
			}

			now := time.Now().UnixNano()
			if record.Timestamp > uint64(now) || record.Timestamp < uint64(now-int64(time.Minute)) {
				t.Errorf("Timestamp seems unreasonable: %d", record.Timestamp)
			}
		})
	}
}

func TestRecordCodec_WireFormat(t *testing.T) {
	codec := NewRecordCodec()
	encoded, err := codec.Encode([]byte("ab"), []byte("xyz"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if got := binary.LittleEndian.Uint32(encoded[4:8]); got != 2 {
		t.Errorf("KeySize field: got %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(encoded[8:12]); got != 3 {
		t.Errorf("ValueSize field: got %d, want 3", got)
	}
	if got := string(encoded[HeaderSize:]); got != "abxyz" {
		t.Errorf("payload: got %q, want %q", got, "abxyz")
	}

	// The checksum is standard IEEE CRC-32 over everything after the CRC.
	want := crc32.ChecksumIEEE(encoded[4:])
	if got := binary.LittleEndian.Uint32(encoded[0:4]); got != want {
		t.Errorf("CRC field: got %#x, want %#x", got, want)
	}
}

func TestRecordCodec_CRCValidation(t *testing.T) {
	codec := NewRecordCodec()
	key := []byte("test key")
	value := []byte("test value")

	corruptions := []struct {
		name   string
		offset int
	}{
		{"CRC field", 0},
		{"timestamp", 12},
		{"key data", HeaderSize},
		{"value data", HeaderSize + len(key)},
	}

	t.Run("valid CRC passes validation", func(t *testing.T) {
		encoded, err := codec.Encode(key, value)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		record, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if err := record.Validate(); err != nil {
			t.Errorf("Valid record failed validation: %v", err)
		}
	})

	for _, c := range corruptions {
		t.Run("corrupted "+c.name+" fails validation", func(t *testing.T) {
			encoded, err := codec.Encode(key, value)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			encoded[c.offset] ^= 0xFF

			record, err := codec.Decode(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if err := record.Validate(); !errors.Is(err, ErrCRCMismatch) {
				t.Errorf("Expected ErrCRCMismatch, got %v", err)
			}
			if err := NewRecordView(buffer.New(encoded)).Verify(); !errors.Is(err, ErrCRCMismatch) {
				t.Errorf("Expected view to report ErrCRCMismatch, got %v", err)
			}
		})
	}
}

func TestRecordCodec_MalformedData(t *testing.T) {
	codec := NewRecordCodec()

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty data", data: []byte{}},
		{name: "too short for header", data: []byte{0x01, 0x02, 0x03}},
		{
			name: "insufficient data for declared key size",
			data: func() []byte {
				buf := make([]byte, 20)
				binary.LittleEndian.PutUint32(buf[4:8], 100)
				return buf
			}(),
		},
		{
			name: "insufficient data for declared value size",
			data: func() []byte {
				buf := make([]byte, 25)
				binary.LittleEndian.PutUint32(buf[4:8], 5)
				binary.LittleEndian.PutUint32(buf[8:12], 100)
				return buf
			}(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Decode(tc.data)
			if !errors.Is(err, ErrShortRecord) {
				t.Errorf("Expected ErrShortRecord for %s, got %v", tc.name, err)
			}
		})
	}
}

func TestRecord_Size(t *testing.T) {
	testCases := []struct {
		name         string
		key          []byte
		value        []byte
		expectedSize int
	}{
		{name: "empty key and value", key: []byte(""), value: []byte(""), expectedSize: 20},
		{name: "small key and value", key: []byte("key"), value: []byte("value"), expectedSize: 20 + 3 + 5},
		{name: "large data", key: bytes.Repeat([]byte("k"), 1000), value: bytes.Repeat([]byte("v"), 2000), expectedSize: 20 + 1000 + 2000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			record := NewRecord(tc.key, tc.value)
			if record.Size() != tc.expectedSize {
				t.Errorf("Size mismatch: got %d, want %d", record.Size(), tc.expectedSize)
			}
		})
	}
}

func TestNewRecord(t *testing.T) {
	key := []byte("test key")
	value := []byte("test value")

	record := NewRecord(key, value)

	if record.KeySize != uint32(len(key)) {
		t.Errorf("KeySize mismatch: got %d, want %d", record.KeySize, len(key))
	}
	if record.ValueSize != uint32(len(value)) {
		t.Errorf("ValueSize mismatch: got %d, want %d", record.ValueSize, len(value))
	}

	now := time.Now().UnixNano()
	if record.Timestamp > uint64(now) || record.Timestamp < uint64(now-int64(time.Second)) {
		t.Errorf("Timestamp seems unreasonable: %d", record.Timestamp)
	}

	// CRC32 is only known once the record is encoded.
	if record.CRC32 != 0 {
		t.Errorf("Expected CRC32 to be zero initially, got %d", record.CRC32)
	}
}

func TestRecord_CalculateCRC32(t *testing.T) {
	record := NewRecord([]byte("test key"), []byte("test value"))

	crc := record.calculateCRC32()
	if crc == 0 {
		t.Error("Expected non-zero CRC32 for non-empty record")
	}
	if crc2 := record.calculateCRC32(); crc != crc2 {
		t.Errorf("CRC32 calculation is not deterministic: %d vs %d", crc, crc2)
	}

	record2 := NewRecord([]byte("different key"), record.Value)
	record2.Timestamp = record.Timestamp
	if crc == record2.calculateCRC32() {
		t.Error("Different records produced same CRC32")
	}
}
