package world

import (
	"fmt"

	"github.com/ConnerAdamsMaine/RustCraft-Server/config"
)

// RegionPos identifies a 32x32 tile of chunks: (x, z) = (chunk.x>>5,
// chunk.z>>5).
type RegionPos struct {
	X, Z int32
}

// worldHalfSpan is the bound a region's chunk-corner extents must fall
// within on each axis for the region to be valid.
func worldHalfSpan() int32 { return config.WorldMaxChunks / 2 }

// MinChunk returns the region tile's minimum chunk-coordinate corner.
func (r RegionPos) MinChunk() ChunkPos {
	return ChunkPos{X: r.X * config.WorldRegionSize, Z: r.Z * config.WorldRegionSize}
}

// MaxChunk returns the region tile's maximum (inclusive) chunk-coordinate
// corner.
func (r RegionPos) MaxChunk() ChunkPos {
	min := r.MinChunk()
	return ChunkPos{X: min.X + config.WorldRegionSize - 1, Z: min.Z + config.WorldRegionSize - 1}
}

// IsValid reports whether both the tile's minimum and maximum chunk
// corners fall within [-WorldMaxChunks/2, WorldMaxChunks/2) on each axis.
func (r RegionPos) IsValid() bool {
	half := worldHalfSpan()
	min, max := r.MinChunk(), r.MaxChunk()
	inRange := func(v int32) bool { return v >= -half && v < half }
	return inRange(min.X) && inRange(min.Z) && inRange(max.X) && inRange(max.Z)
}

// Filename returns the deterministic persistence filename for this
// region, derived from the tile's chunk-corner extents.
func (r RegionPos) Filename() string {
	min, max := r.MinChunk(), r.MaxChunk()
	return fmt.Sprintf("region_%d_%d_%d_%d.dat", min.X, min.Z, max.X, max.Z)
}

// regionSlotCount is the number of chunk slots in a region (32x32).
const regionSlotCount = config.WorldRegionSize * config.WorldRegionSize

// localIndex maps a chunk's local (within-region) coordinate to its slot
// index, z*32 + x.
func localIndex(local ChunkPos) int {
	return int(local.Z)*config.WorldRegionSize + int(local.X)
}

// Region is an in-memory 32x32 tile of optional chunk slots, indexed by
// local coordinate.
type Region struct {
	Pos      RegionPos
	slots    [regionSlotCount]*Chunk
	Modified bool
}

// NewRegion returns an empty region at pos.
func NewRegion(pos RegionPos) *Region {
	return &Region{Pos: pos}
}

// localOf converts an absolute chunk position into this region's local
// coordinate space, reporting whether it actually belongs to this region.
func (r *Region) localOf(pos ChunkPos) (ChunkPos, bool) {
	if pos.Region() != r.Pos {
		return ChunkPos{}, false
	}
	min := r.Pos.MinChunk()
	return ChunkPos{X: pos.X - min.X, Z: pos.Z - min.Z}, true
}

// Insert places chunk into its slot. Insertion into a slot outside the
// region's range is rejected.
func (r *Region) Insert(chunk *Chunk) error {
	local, ok := r.localOf(chunk.Pos)
	if !ok {
		return fmt.Errorf("world: chunk %s is not in region %v", chunk.Pos, r.Pos)
	}
	r.slots[localIndex(local)] = chunk
	r.Modified = true
	return nil
}

// Get returns the chunk at pos, if resident.
func (r *Region) Get(pos ChunkPos) (*Chunk, bool) {
	local, ok := r.localOf(pos)
	if !ok {
		return nil, false
	}
	c := r.slots[localIndex(local)]
	return c, c != nil
}

// Chunks returns every resident chunk in the region, in slot order.
func (r *Region) Chunks() []*Chunk {
	out := make([]*Chunk, 0, regionSlotCount)
	for _, c := range r.slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
