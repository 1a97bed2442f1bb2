package serial

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(0xAB)
	w.WriteUint16(0xBEEF)
	w.WriteUint32(0xDEADBEEF)
	w.WriteUint64(0xDEADBEEFCAFEBABE)
	w.WriteInt8(-5)
	w.WriteInt16(-12345)
	w.WriteInt32(-123456789)
	w.WriteInt64(-1234567890123)
	w.WriteFloat32(3.5)
	w.WriteFloat64(-2.25)

	r := NewReader(w.Bytes())

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEFCAFEBABE), u64)

	i8, err := r.ReadInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(-5), i8)

	i16, err := r.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-12345), i16)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-123456789), i32)

	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1234567890123), i64)

	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.5), f32)

	f64, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	assert.False(t, r.More())
}

func TestPrimitiveExtremes(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(math.MinInt32)
	w.WriteInt32(math.MaxInt32)
	w.WriteInt64(math.MinInt64)
	w.WriteUint64(math.MaxUint64)

	r := NewReader(w.Bytes())

	minI32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), minI32)

	maxI32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), maxI32)

	minI64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), minI64)

	maxU64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), maxU64)
}

func TestEmptyStringIsSingleNullByte(t *testing.T) {
	w := NewWriter()
	w.WriteString("")
	assert.Equal(t, []byte{0x00}, w.Bytes())

	r := NewReader([]byte{0x00})
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
	assert.False(t, r.More())
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{
		"a",
		"hello world",
		"#osu",
		"ütf-8 çontent ♥",
		strings.Repeat("x", 100000),
	} {
		w := NewWriter()
		w.WriteString(s)

		r := NewReader(w.Bytes())
		got, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.False(t, r.More())
	}
}

func TestULEB128BoundaryLengths(t *testing.T) {
	for _, length := range []int{0, 127, 128, 16383, 16384, 2097151, 2097152} {
		s := strings.Repeat("a", length)

		w := NewWriter()
		w.WriteString(s)

		r := NewReader(w.Bytes())
		got, err := r.ReadString()
		require.NoError(t, err, "length %d", length)
		assert.Len(t, got, length)
	}
}

func TestULEB128Encoding(t *testing.T) {
	w := NewWriter()
	w.WriteString(strings.Repeat("a", 128))

	// 0x0B prefix, then 128 as two ULEB128 bytes.
	assert.Equal(t, []byte{0x0B, 0x80, 0x01}, w.Bytes()[:3])
}

func TestAlienStringPrefixYieldsEmpty(t *testing.T) {
	r := NewReader([]byte{0x07, 0xFF, 0xFF})
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
	// Only the prefix byte is consumed.
	assert.Equal(t, 2, r.Remaining())
}

func TestReadPastEnd(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint32()
	assert.ErrorIs(t, err, ErrShortRead)

	r = NewReader([]byte{0x0B, 0x05, 'a', 'b'})
	_, err = r.ReadString()
	assert.ErrorIs(t, err, ErrShortRead)
}
