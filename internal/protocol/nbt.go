package protocol

import (
	"encoding/binary"
	"math"
)

// NBT tag IDs for the narrow subset this server constructs. The codec
// only ever builds these compounds; it never parses NBT, so there is no
// general-purpose reader here.
const (
	tagEnd       = 0x00
	tagByte      = 0x01
	tagInt       = 0x03
	tagFloat     = 0x05
	tagString    = 0x08
	tagCompound  = 0x0A
	tagLongArray = 0x0C
)

// NBTBuilder accumulates a single TAG_Compound payload. Root compounds
// carry an empty two-byte name length; named child tags carry a
// big-endian 16-bit name length followed by the ASCII name bytes, the
// same prefix strings use.
type NBTBuilder struct {
	buf []byte
}

// NewNBTCompound starts a root compound (TAG_Compound, empty name).
func NewNBTCompound() *NBTBuilder {
	b := &NBTBuilder{}
	b.buf = append(b.buf, tagCompound)
	b.writeName("")
	return b
}

func (b *NBTBuilder) writeName(name string) {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(name)))
	b.buf = append(b.buf, l[:]...)
	b.buf = append(b.buf, name...)
}

// Byte appends a named TAG_Byte.
func (b *NBTBuilder) Byte(name string, v int8) *NBTBuilder {
	b.buf = append(b.buf, tagByte)
	b.writeName(name)
	b.buf = append(b.buf, byte(v))
	return b
}

// Int appends a named TAG_Int.
func (b *NBTBuilder) Int(name string, v int32) *NBTBuilder {
	b.buf = append(b.buf, tagInt)
	b.writeName(name)
	var v4 [4]byte
	binary.BigEndian.PutUint32(v4[:], uint32(v))
	b.buf = append(b.buf, v4[:]...)
	return b
}

// Float appends a named TAG_Float.
func (b *NBTBuilder) Float(name string, v float32) *NBTBuilder {
	b.buf = append(b.buf, tagFloat)
	b.writeName(name)
	var v4 [4]byte
	binary.BigEndian.PutUint32(v4[:], math.Float32bits(v))
	b.buf = append(b.buf, v4[:]...)
	return b
}

// String appends a named TAG_String (a VarInt-free, 16-bit-length-prefixed
// string, per the NBT spec rather than the protocol's own string field).
func (b *NBTBuilder) String(name, v string) *NBTBuilder {
	b.buf = append(b.buf, tagString)
	b.writeName(name)
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(v)))
	b.buf = append(b.buf, l[:]...)
	b.buf = append(b.buf, v...)
	return b
}

// LongArray appends a named TAG_LongArray: a big-endian int32 element
// count followed by that many big-endian int64s.
func (b *NBTBuilder) LongArray(name string, values []int64) *NBTBuilder {
	b.buf = append(b.buf, tagLongArray)
	b.writeName(name)
	var cnt [4]byte
	binary.BigEndian.PutUint32(cnt[:], uint32(len(values)))
	b.buf = append(b.buf, cnt[:]...)
	for _, v := range values {
		var v8 [8]byte
		binary.BigEndian.PutUint64(v8[:], uint64(v))
		b.buf = append(b.buf, v8[:]...)
	}
	return b
}

// Compound appends a named nested compound built by fn, which receives a
// fresh (unrooted) builder and must return it after populating it.
func (b *NBTBuilder) Compound(name string, fn func(*NBTBuilder) *NBTBuilder) *NBTBuilder {
	b.buf = append(b.buf, tagCompound)
	b.writeName(name)
	child := fn(&NBTBuilder{})
	b.buf = append(b.buf, child.buf...)
	b.buf = append(b.buf, tagEnd)
	return b
}

// Bytes closes the compound with TAG_End and returns the encoded bytes.
func (b *NBTBuilder) Bytes() []byte {
	out := make([]byte, len(b.buf)+1)
	copy(out, b.buf)
	out[len(b.buf)] = tagEnd
	return out
}
