package terrain

import (
	"math"
	"sync"

	"github.com/ConnerAdamsMaine/RustCraft-Server/internal/world"
)

// mapSize is the side length of the lazily-built height/biome tile.
const mapSize = 512

// seaLevelElevation is the elevation treated as the water/air boundary
// when filling a column.
const seaLevelElevation = -0.05

// ChunkGenerator produces deterministic chunks from a seed. Its height
// and biome maps are lazily constructed once, on first use, and live for
// the generator's lifetime. The maps are protected by an RWMutex that
// upgrades to the write lock only for the one-time build.
type ChunkGenerator struct {
	seed int64

	mu          sync.RWMutex
	initialized bool
	heightMap   *[mapSize][mapSize]float64
	biomeMap    *[mapSize][mapSize]Biome
}

// NewChunkGenerator returns a generator seeded with seed. Construction
// does no work; the maps build lazily on first GenerateChunk.
func NewChunkGenerator(seed int64) *ChunkGenerator {
	return &ChunkGenerator{seed: seed}
}

// ensureMaps builds the height and biome maps on first call and is a
// no-op afterward.
func (g *ChunkGenerator) ensureMaps() {
	g.mu.RLock()
	if g.initialized {
		g.mu.RUnlock()
		return
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.initialized {
		return
	}

	height := g.buildHeightMap()
	g.applyRidges(height)
	g.applyErosion(height, 2)
	biome := g.buildBiomeMap(height)

	g.heightMap = height
	g.biomeMap = biome
	g.initialized = true
}

func (g *ChunkGenerator) buildHeightMap() *[mapSize][mapSize]float64 {
	var h [mapSize][mapSize]float64
	for x := 0; x < mapSize; x++ {
		for z := 0; z < mapSize; z++ {
			fx, fz := float64(x), float64(z)
			e := 0.6*fbm(fx/512, fz/512, 3, g.seed) +
				0.3*fbm(fx/128, fz/128, 2, g.seed+1) +
				0.1*perlinNoise(fx/32, fz/32, 1, g.seed+2)
			h[x][z] = clamp(e, -1, 1)
		}
	}
	return &h
}

// applyRidges simulates plate-collision ridging: cells near the midpoint
// of each 256-wide sub-tile (on either axis) gain elevation proportional
// to their proximity to that midpoint.
func (g *ChunkGenerator) applyRidges(h *[mapSize][mapSize]float64) {
	for x := 0; x < mapSize; x++ {
		for z := 0; z < mapSize; z++ {
			boost := ridgeBoost(x, z)
			if boost > 0 {
				h[x][z] = clamp(h[x][z]+boost, -1, 1)
			}
		}
	}
}

func ridgeBoost(x, z int) float64 {
	const sub = 256
	const mid = sub / 2
	const reach = 32

	dx := absInt(floorMod(x, sub) - mid)
	dz := absInt(floorMod(z, sub) - mid)
	if dx > reach && dz > reach {
		return 0
	}
	d := dx
	if dz < d {
		d = dz
	}
	if d > reach {
		return 0
	}
	proximity := float64(reach-d) / float64(reach)
	return 0.15 * proximity
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// applyErosion runs iterations rounds of thermal erosion: a cell higher
// than every 4-neighbor by more than 0.1 loses 0.05; a cell lower than
// every 4-neighbor by more than 0.1 gains 0.05. Deltas are computed from
// a snapshot and applied afterward so a round's result does not depend on
// cell iteration order.
func (g *ChunkGenerator) applyErosion(h *[mapSize][mapSize]float64, iterations int) {
	var delta [mapSize][mapSize]float64
	for round := 0; round < iterations; round++ {
		for x := range delta {
			for z := range delta[x] {
				delta[x][z] = 0
			}
		}
		for x := 0; x < mapSize; x++ {
			for z := 0; z < mapSize; z++ {
				if x == 0 || x == mapSize-1 || z == 0 || z == mapSize-1 {
					continue
				}
				e := h[x][z]
				n := [4]float64{h[x-1][z], h[x+1][z], h[x][z-1], h[x][z+1]}
				higherThanAll, lowerThanAll := true, true
				for _, nv := range n {
					if e-nv <= 0.1 {
						higherThanAll = false
					}
					if nv-e <= 0.1 {
						lowerThanAll = false
					}
				}
				switch {
				case higherThanAll:
					delta[x][z] = -0.05
				case lowerThanAll:
					delta[x][z] = 0.05
				}
			}
		}
		for x := 0; x < mapSize; x++ {
			for z := 0; z < mapSize; z++ {
				if delta[x][z] != 0 {
					h[x][z] = clamp(h[x][z]+delta[x][z], -1, 1)
				}
			}
		}
	}
}

// buildBiomeMap classifies every cell from its elevation and local slope,
// the slope computed by central difference (bounds cells fall back to a
// one-sided difference).
func (g *ChunkGenerator) buildBiomeMap(h *[mapSize][mapSize]float64) *[mapSize][mapSize]Biome {
	var b [mapSize][mapSize]Biome
	for x := 0; x < mapSize; x++ {
		for z := 0; z < mapSize; z++ {
			dedx := partialX(h, x, z)
			dedz := partialZ(h, x, z)
			slope := math.Sqrt(dedx*dedx + dedz*dedz)
			b[x][z] = classifyBiome(h[x][z], slope)
		}
	}
	return &b
}

func partialX(h *[mapSize][mapSize]float64, x, z int) float64 {
	x0, x1 := x-1, x+1
	if x0 < 0 {
		x0 = 0
	}
	if x1 >= mapSize {
		x1 = mapSize - 1
	}
	if x0 == x1 {
		return 0
	}
	return (h[x1][z] - h[x0][z]) / float64(x1-x0)
}

func partialZ(h *[mapSize][mapSize]float64, x, z int) float64 {
	z0, z1 := z-1, z+1
	if z0 < 0 {
		z0 = 0
	}
	if z1 >= mapSize {
		z1 = mapSize - 1
	}
	if z0 == z1 {
		return 0
	}
	return (h[x][z1] - h[x][z0]) / float64(z1-z0)
}

// heightForElevation maps an elevation in [-1, 1] to an integer block
// height in [0, 256].
func heightForElevation(e float64) int {
	v := (e+1)/2*190 + 10
	h := int(v)
	if h < 0 {
		h = 0
	}
	if h > world.ChunkHeight {
		h = world.ChunkHeight
	}
	return h
}

// GenerateChunk deterministically generates the chunk at pos. Two
// generators built with the same seed produce identical chunks at the
// same position, since every step from hash2d onward is a pure function
// of (x, z, seed).
func (g *ChunkGenerator) GenerateChunk(pos world.ChunkPos) *world.Chunk {
	g.ensureMaps()

	g.mu.RLock()
	defer g.mu.RUnlock()

	seaLevel := heightForElevation(seaLevelElevation)
	chunk := world.NewChunk(pos)

	for lx := 0; lx < world.ChunkWidth; lx++ {
		for lz := 0; lz < world.ChunkDepth; lz++ {
			bx := int(pos.X)*world.ChunkWidth + lx
			bz := int(pos.Z)*world.ChunkDepth + lz
			tx := floorMod(bx, mapSize)
			tz := floorMod(bz, mapSize)

			e := g.heightMap[tx][tz]
			biome := g.biomeMap[tx][tz]
			h := heightForElevation(e)

			fillColumn(chunk, lx, lz, h, seaLevel, biome)
		}
	}
	chunk.MarkClean()
	return chunk
}

// fillColumn fills one (x, z) column up to height h with biome-dependent
// blocks, then water up to seaLevel.
func fillColumn(chunk *world.Chunk, x, z, h, seaLevel int, biome Biome) {
	for y := 0; y < h; y++ {
		depth := h - 1 - y
		chunk.SetBlock(x, y, z, blockForColumn(biome, depth))
	}
	for y := h; y < seaLevel; y++ {
		chunk.SetBlock(x, y, z, world.BlockWater)
	}
}

func blockForColumn(biome Biome, depth int) world.Block {
	switch biome {
	case BiomeOcean, BiomeBeach:
		if depth < 4 {
			return world.BlockSand
		}
		return world.BlockStone
	case BiomeMountain, BiomeSnow, BiomeSnowMountain:
		if depth > 0 && depth%5 == 0 {
			return world.BlockCobblestone
		}
		return world.BlockStone
	default: // BiomePlains, BiomeForest
		switch {
		case depth == 0:
			return world.BlockGrass
		case depth <= 3:
			return world.BlockDirt
		default:
			return world.BlockStone
		}
	}
}
