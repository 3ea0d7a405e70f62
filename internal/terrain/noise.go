// Package terrain implements the deterministic terrain generator:
// multi-octave value noise, simulated plate-collision ridging, thermal
// erosion, a biome classifier, and a per-column block filler.
package terrain

import "math"

// hash2d scrambles (x, z, seed) with multiplicative hashing and returns a
// value in [0, 1]. Pure and deterministic: the same inputs always produce
// the same output, which is what makes independently-seeded generators
// agree chunk for chunk.
func hash2d(x, z int64, seed int64) float64 {
	h := uint64(x)*374761393 + uint64(z)*668265263 + uint64(seed)*2147483647
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	// Keep 53 bits so the float64 conversion is exact, then normalize.
	return float64(h&((1<<53)-1)) / float64(uint64(1)<<53)
}

// smoothstep is the classic 3t^2-2t^3 fade curve used to interpolate
// between lattice samples without a visible grid.
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// perlinNoise performs bilinear interpolation of the four lattice hashes
// surrounding (x/scale, z/scale), faded with smoothstep, and returns a
// value in [0, 1].
func perlinNoise(x, z, scale float64, seed int64) float64 {
	sx := x / scale
	sz := z / scale

	x0 := int64(math.Floor(sx))
	z0 := int64(math.Floor(sz))
	x1 := x0 + 1
	z1 := z0 + 1

	tx := smoothstep(sx - float64(x0))
	tz := smoothstep(sz - float64(z0))

	h00 := hash2d(x0, z0, seed)
	h10 := hash2d(x1, z0, seed)
	h01 := hash2d(x0, z1, seed)
	h11 := hash2d(x1, z1, seed)

	top := lerp(h00, h10, tx)
	bottom := lerp(h01, h11, tx)
	return lerp(top, bottom, tz)
}

// fbm sums octaves scales of perlinNoise, halving amplitude and doubling
// frequency each octave, normalized by the total amplitude so the result
// stays in [0, 1].
func fbm(x, z float64, octaves int, seed int64) float64 {
	var sum, amp, ampSum, freq float64
	amp = 1
	freq = 1
	for i := 0; i < octaves; i++ {
		sum += amp * perlinNoise(x*freq, z*freq, 1, seed+int64(i))
		ampSum += amp
		amp *= 0.5
		freq *= 2
	}
	if ampSum == 0 {
		return 0
	}
	return sum / ampSum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floorMod is Euclidean modulo: always in [0, m).
func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
