// Package world implements the chunk storage subsystem: the Block/Chunk/
// Region data model, the hit-count-aware bounded cache, the region-file
// codec, the chunk-generation worker pool, and the chunk storage service
// that composes them.
package world

import "fmt"

// Block is a single voxel drawn from a closed, round-trippable set.
type Block uint8

// The closed set of blocks this server knows about. Air is the zero
// value so an unset element of a Chunk's grid reads as air for free.
const (
	BlockAir Block = iota
	BlockStone
	BlockGrass
	BlockDirt
	BlockCobblestone
	BlockOakLog
	BlockOakLeaves
	BlockOakPlanks
	BlockWater
	BlockLava
	BlockSand
	BlockGravel

	blockCount
)

// String names a block for diagnostics.
func (b Block) String() string {
	switch b {
	case BlockAir:
		return "air"
	case BlockStone:
		return "stone"
	case BlockGrass:
		return "grass"
	case BlockDirt:
		return "dirt"
	case BlockCobblestone:
		return "cobblestone"
	case BlockOakLog:
		return "oak_log"
	case BlockOakLeaves:
		return "oak_leaves"
	case BlockOakPlanks:
		return "oak_planks"
	case BlockWater:
		return "water"
	case BlockLava:
		return "lava"
	case BlockSand:
		return "sand"
	case BlockGravel:
		return "gravel"
	default:
		return fmt.Sprintf("block(%d)", uint8(b))
	}
}

// Code returns the block's round-trippable numeric code.
func (b Block) Code() uint16 { return uint16(b) }

// BlockFromCode maps a numeric code back to a Block. Unknown codes are
// rejected.
func BlockFromCode(code uint16) (Block, error) {
	if code >= uint16(blockCount) {
		return 0, fmt.Errorf("world: unknown block code %d", code)
	}
	return Block(code), nil
}
