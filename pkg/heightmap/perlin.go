package heightmap

import (
	"github.com/aquilax/go-perlin"
)

// Noise parameters. Alpha smooths the octaves, beta sets the frequency
// step between them.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Perlin is a procedural heightmap backed by layered Perlin noise.
// It generates rolling terrain deterministically from a seed, which is
// handy for previewing conversion settings without input files.
type Perlin struct {
	width, height uint32
	max           uint32
	noise         *perlin.Perlin
	frequency     float64
}

// NewPerlin creates a procedural heightmap. Elevations range over
// [0, max]. The same seed always produces the same terrain.
func NewPerlin(width, height, max uint32, seed int64) *Perlin {
	if max == 0 {
		max = 255
	}
	return &Perlin{
		width:     width,
		height:    height,
		max:       max,
		noise:     perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
		frequency: 1.0 / 64.0,
	}
}

// At returns the procedural elevation at the given coordinates.
func (m *Perlin) At(x, y uint32) uint32 {
	// Noise2D returns roughly [-1, 1]; remap to [0, 1] before scaling.
	n := (m.noise.Noise2D(float64(x)*m.frequency, float64(y)*m.frequency) + 1.0) / 2.0
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return uint32(n * float64(m.max))
}

// Size returns the domain dimensions.
func (m *Perlin) Size() (uint32, uint32) {
	return m.width, m.height
}

var _ Heightmap = (*Perlin)(nil)
