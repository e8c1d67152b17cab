package codec

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/embview/pkg/buffer"
	"github.com/ssargent/embview/pkg/check"
	"github.com/ssargent/embview/pkg/text"
)

func TestRecordView_Fields(t *testing.T) {
	encoded, err := NewRecordCodec().Encode([]byte("key"), []byte("value"))
	require.NoError(t, err)

	v := NewRecordView(buffer.New(encoded))
	require.True(t, v.Complete())
	require.NoError(t, v.Verify())

	ks, err := v.KeySize().Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), ks)
	assert.Equal(t, uint64(5), v.ValueSize().UncheckedRead())
	assert.Equal(t, len(encoded), v.SizeInBytes())

	keys, err := v.Key().Values()
	require.NoError(t, err)
	assert.Equal(t, []uint64{'k', 'e', 'y'}, keys)
	assert.Equal(t, `{ [0]: 107, 101, 121 }`, text.WriteToString(v.Key()))
	assert.Equal(t, 5, v.Value().ElementCount())
	assert.Equal(t, len(encoded)-4, v.Checksummed().ElementCount())
}

func TestRecordView_EditInPlace(t *testing.T) {
	encoded, err := NewRecordCodec().Encode([]byte("k"), []byte{1, 2, 3})
	require.NoError(t, err)

	v := NewRecordView(buffer.New(encoded))
	require.True(t, text.UpdateFromText(v.Value(), "{ [1]: 0x20 }"))
	assert.Equal(t, byte(0x20), encoded[HeaderSize+2])

	assert.True(t, errors.Is(v.Verify(), ErrCRCMismatch), "edits invalidate the stored CRC")
}

func TestRecordView_Truncated(t *testing.T) {
	encoded, err := NewRecordCodec().Encode([]byte("key"), []byte("value"))
	require.NoError(t, err)

	header := NewRecordView(buffer.New(encoded[:10]))
	assert.False(t, header.Complete())
	assert.True(t, errors.Is(header.Verify(), ErrShortRecord))
	_, err = header.Timestamp().Read()
	assert.True(t, errors.Is(err, check.ErrIncomplete))

	body := NewRecordView(buffer.New(encoded[:len(encoded)-1]))
	assert.True(t, body.Timestamp().IsComplete())
	assert.False(t, body.Complete())
	assert.True(t, body.Key().IsComplete())
	value := body.Value()
	assert.Equal(t, 5, value.ElementCount(), "the declared size survives truncation")
	assert.False(t, value.IsComplete())
	assert.False(t, value.Ok())
	_, err = value.ValueAt(4)
	assert.True(t, errors.Is(err, check.ErrIncomplete))
	assert.False(t, body.Checksummed().IsComplete())

	assert.False(t, NewRecordView(buffer.Null()).Complete())
}

func TestRecordView_ReadOnly(t *testing.T) {
	encoded, err := NewRecordCodec().Encode([]byte("key"), []byte("value"))
	require.NoError(t, err)

	v := NewRecordView(buffer.NewReadOnly(encoded))
	require.NoError(t, v.Verify())
	assert.True(t, errors.Is(v.KeySize().Write(1), check.ErrReadOnly))
	assert.False(t, text.UpdateFromText(v.Key(), "{ 1, 2, 3 }"))
}
