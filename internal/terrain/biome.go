package terrain

// Biome is a coarse classification of a terrain cell, derived from its
// elevation and local slope.
type Biome uint8

const (
	BiomeOcean Biome = iota
	BiomeBeach
	BiomePlains
	BiomeForest
	BiomeMountain
	BiomeSnow
	BiomeSnowMountain
)

// classifyBiome maps elevation and slope to a biome. Above elevation 0.1 a
// steep enough slope turns a cell into mountain (snow-mountain above 0.7);
// at or below 0.1 the slope is ignored.
func classifyBiome(e, slope float64) Biome {
	switch {
	case e > 0.7 && slope > 0.3:
		return BiomeSnowMountain
	case e > 0.7:
		return BiomeSnow
	case e > 0.5 && slope > 0.25:
		return BiomeMountain
	case e > 0.5:
		return BiomeForest
	case e > 0.3 && slope <= 0.2:
		return BiomeForest
	case e > 0.1 && slope > 0.2:
		return BiomeMountain
	case e > 0.1:
		return BiomePlains
	case e > -0.05:
		return BiomeBeach
	default:
		return BiomeOcean
	}
}
