// Package serial implements the bancho binary wire format: little-endian
// primitives, ULEB128-prefixed strings, and packet framing.
package serial

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortRead is returned when a read would run past the end of the buffer.
var ErrShortRead = errors.New("serial: read past end of buffer")

// String prefix bytes. An empty string is a single 0x00; a non-empty string
// is 0x0B followed by a ULEB128 byte length and the UTF-8 bytes.
const (
	stringEmptyPrefix  = 0x00
	stringExistsPrefix = 0x0B
)

// Writer accumulates little-endian bancho primitives.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteInt8(v int8)   { w.WriteUint8(uint8(v)) }
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

func (w *Writer) WriteBytes(p []byte) {
	w.buf.Write(p)
}

// WriteString writes s in bancho ULEB128 form.
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.buf.WriteByte(stringEmptyPrefix)
		return
	}

	w.buf.WriteByte(stringExistsPrefix)

	remaining := len(s)
	for remaining > 0 {
		b := byte(remaining & 0x7F)
		remaining >>= 7
		if remaining > 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
	}

	w.buf.WriteString(s)
}

// Reader consumes little-endian bancho primitives from a byte slice.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// More reports whether any unread bytes remain.
func (r *Reader) More() bool {
	return r.off < len(r.data)
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortRead
	}
	p := r.data[r.off : r.off+n]
	r.off += n
	return p, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	p, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	p, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	p, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes returns the next n bytes. The slice aliases the underlying
// buffer; copy it before holding on past the request.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

// ReadString reads a bancho ULEB128 string. A leading byte that is neither
// 0x00 nor 0x0B yields the empty string and consumes no further bytes.
func (r *Reader) ReadString() (string, error) {
	prefix, err := r.ReadUint8()
	if err != nil {
		return "", err
	}
	if prefix != stringExistsPrefix {
		return "", nil
	}

	length := 0
	shift := 0
	for {
		b, err := r.ReadUint8()
		if err != nil {
			return "", err
		}
		length |= int(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift > 35 {
			return "", ErrShortRead
		}
	}

	p, err := r.take(length)
	if err != nil {
		return "", err
	}
	return string(p), nil
}
