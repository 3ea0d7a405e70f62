package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"

	"golang.org/x/text/unicode/norm"
)

// identifierPattern matches the Minecraft "identifier" alphabet:
// [a-zA-Z0-9/._-:].
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9/._\-:]*$`)

// Writer accumulates a packet payload in wire format. One concrete
// writer type backed by a bytes.Buffer covers every packet this server
// emits; there is no need for a hierarchy over the primitive emit
// operations.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteRaw appends b verbatim.
func (w *Writer) WriteRaw(b []byte) { w.buf.Write(b) }

// WriteVarInt appends v as a VarInt.
func (w *Writer) WriteVarInt(v int32) { w.buf.Write(AppendVarInt(nil, v)) }

// WriteBool appends a single 0x00 or 0x01 byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUByte appends a single unsigned byte.
func (w *Writer) WriteUByte(v uint8) { w.buf.WriteByte(v) }

// WriteInt8 appends a signed byte.
func (w *Writer) WriteInt8(v int8) { w.buf.WriteByte(byte(v)) }

// WriteInt16 appends a big-endian signed 16-bit integer.
func (w *Writer) WriteInt16(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf.Write(b[:])
}

// WriteUint16 appends a big-endian unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt32 appends a big-endian signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// WriteInt64 appends a big-endian signed 64-bit integer.
func (w *Writer) WriteInt64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// WriteFloat32 appends a big-endian IEEE-754 float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteInt32(int32(math.Float32bits(v)))
}

// WriteFloat64 appends a big-endian IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteInt64(int64(math.Float64bits(v)))
}

// WriteString appends a VarInt-prefixed UTF-8 string with no NUL
// terminator.
func (w *Writer) WriteString(s string) {
	w.WriteVarInt(int32(len(s)))
	w.buf.WriteString(s)
}

// WriteIdentifier appends a string restricted to the identifier alphabet.
// Writing an invalid identifier is a programmer error, not a wire
// condition, so it panics the way an out-of-range slice index would.
func (w *Writer) WriteIdentifier(s string) {
	if !identifierPattern.MatchString(s) {
		panic(fmt.Sprintf("protocol: invalid identifier %q", s))
	}
	w.WriteString(s)
}

// WriteUUID appends 16 raw big-endian bytes.
func (w *Writer) WriteUUID(id [16]byte) { w.buf.Write(id[:]) }

// WritePrefixedOptional appends data as a length-prefixed optional byte
// string: VarInt(-1) if data is nil, otherwise VarInt(len(data)) then data.
func (w *Writer) WritePrefixedOptional(data []byte) {
	if data == nil {
		w.WriteVarInt(-1)
		return
	}
	w.WriteVarInt(int32(len(data)))
	w.buf.Write(data)
}

// Reader decodes typed fields from a packet payload held entirely in
// memory (the frame reader already buffered the exact payload length).
type Reader struct {
	r *bytes.Reader
}

// NewReader wraps a payload for typed reads.
func NewReader(payload []byte) *Reader {
	return &Reader{r: bytes.NewReader(payload)}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return r.r.Len() }

func (r *Reader) readN(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return b, nil
}

// ReadVarInt reads a VarInt field.
func (r *Reader) ReadVarInt() (int32, error) { return ReadVarInt(r.r) }

// ReadBool reads a single byte as a boolean (nonzero is true).
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readN(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadUByte reads a single unsigned byte.
func (r *Reader) ReadUByte() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt16 reads a big-endian signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// ReadUint16 reads a big-endian unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadInt32 reads a big-endian signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// ReadFloat32 reads a big-endian IEEE-754 float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadFloat64 reads a big-endian IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

// ReadString reads a VarInt-prefixed UTF-8 string and NFC-normalizes it
// so usernames and identifiers compare consistently regardless of how the
// client composed them.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative string length", ErrMalformedFrame)
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}
	return norm.NFC.String(string(b)), nil
}

// ReadIdentifier reads a string and rejects it if it contains a character
// outside the identifier alphabet.
func (r *Reader) ReadIdentifier() (string, error) {
	s, err := r.ReadString()
	if err != nil {
		return "", err
	}
	if !identifierPattern.MatchString(s) {
		return "", ErrInvalidIdentifier
	}
	return s, nil
}

// ReadUUID reads 16 raw big-endian bytes.
func (r *Reader) ReadUUID() ([16]byte, error) {
	var out [16]byte
	b, err := r.readN(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ReadPrefixedOptional reads a length-prefixed optional byte string:
// VarInt(-1) means absent (nil, nil); otherwise the VarInt is a length
// followed by that many raw bytes.
func (r *Reader) ReadPrefixedOptional() ([]byte, error) {
	n, err := r.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	return r.readN(int(n))
}
