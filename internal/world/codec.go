package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// SerializedChunk is the on-disk representation of one chunk within a
// region file: its position and a flat vector of block codes in
// y-outermost, x-middle, z-innermost order (16*256*16 = 65536 codes).
type SerializedChunk struct {
	PosX, PosZ int32
	Blocks     []uint16
}

// FromChunk flattens a Chunk into its serialized form.
func FromChunk(c *Chunk) SerializedChunk {
	sc := SerializedChunk{
		PosX:   c.Pos.X,
		PosZ:   c.Pos.Z,
		Blocks: make([]uint16, 0, ChunkHeight*ChunkWidth*ChunkDepth),
	}
	for y := 0; y < ChunkHeight; y++ {
		for x := 0; x < ChunkWidth; x++ {
			for z := 0; z < ChunkDepth; z++ {
				sc.Blocks = append(sc.Blocks, c.blocks[x][y][z].Code())
			}
		}
	}
	return sc
}

// ToChunk unflattens a serialized chunk back into a Chunk. An unknown
// block code is rejected rather than remapped to air, keeping decode and
// encode strict inverses.
func ToChunk(sc SerializedChunk) (*Chunk, error) {
	want := ChunkHeight * ChunkWidth * ChunkDepth
	if len(sc.Blocks) != want {
		return nil, fmt.Errorf("world: serialized chunk has %d codes, want %d", len(sc.Blocks), want)
	}
	c := NewChunk(ChunkPos{X: sc.PosX, Z: sc.PosZ})
	i := 0
	for y := 0; y < ChunkHeight; y++ {
		for x := 0; x < ChunkWidth; x++ {
			for z := 0; z < ChunkDepth; z++ {
				b, err := BlockFromCode(sc.Blocks[i])
				if err != nil {
					return nil, err
				}
				c.blocks[x][y][z] = b
				i++
			}
		}
	}
	c.MarkClean()
	return c, nil
}

// EncodeRegionFile serializes every chunk in the region to the region
// file's on-disk layout: a length-prefixed sequence of
// {pos: (i32,i32), blocks: []u16} with fixed field widths, no padding,
// no version tag, no checksum. The region's own coordinate is
// deliberately not written; the caller recovers it from the filename at
// load time.
func EncodeRegionFile(r *Region) []byte {
	chunks := r.Chunks()
	var buf bytes.Buffer

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(chunks)))
	buf.Write(countBuf[:])

	for _, c := range chunks {
		sc := FromChunk(c)
		var header [8]byte
		binary.BigEndian.PutUint32(header[0:4], uint32(sc.PosX))
		binary.BigEndian.PutUint32(header[4:8], uint32(sc.PosZ))
		buf.Write(header[:])

		var blockCount [4]byte
		binary.BigEndian.PutUint32(blockCount[:], uint32(len(sc.Blocks)))
		buf.Write(blockCount[:])

		for _, code := range sc.Blocks {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], code)
			buf.Write(b[:])
		}
	}
	return buf.Bytes()
}

// DecodeRegionFile parses the on-disk layout EncodeRegionFile produces
// and rebuilds a Region at pos, inserting each decoded chunk.
func DecodeRegionFile(pos RegionPos, data []byte) (*Region, error) {
	r := NewRegion(pos)
	br := bytes.NewReader(data)

	var countBuf [4]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return nil, fmt.Errorf("world: read region chunk count: %w", err)
	}
	count := binary.BigEndian.Uint32(countBuf[:])

	for i := uint32(0); i < count; i++ {
		var header [8]byte
		if _, err := io.ReadFull(br, header[:]); err != nil {
			return nil, fmt.Errorf("world: read chunk header %d: %w", i, err)
		}
		sc := SerializedChunk{
			PosX: int32(binary.BigEndian.Uint32(header[0:4])),
			PosZ: int32(binary.BigEndian.Uint32(header[4:8])),
		}

		var blockCountBuf [4]byte
		if _, err := io.ReadFull(br, blockCountBuf[:]); err != nil {
			return nil, fmt.Errorf("world: read chunk %d block count: %w", i, err)
		}
		n := binary.BigEndian.Uint32(blockCountBuf[:])
		sc.Blocks = make([]uint16, n)
		for j := uint32(0); j < n; j++ {
			var b [2]byte
			if _, err := io.ReadFull(br, b[:]); err != nil {
				return nil, fmt.Errorf("world: read chunk %d block %d: %w", i, j, err)
			}
			sc.Blocks[j] = binary.BigEndian.Uint16(b[:])
		}

		c, err := ToChunk(sc)
		if err != nil {
			return nil, fmt.Errorf("world: decode chunk %d: %w", i, err)
		}
		if err := r.Insert(c); err != nil {
			return nil, fmt.Errorf("world: place chunk %d: %w", i, err)
		}
	}
	return r, nil
}
