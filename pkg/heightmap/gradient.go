package heightmap

// Gradient is a colormap derived from a heightmap: each cell gets a
// gray shade proportional to its elevation. It gives procedural
// terrain a usable color source without an input image.
type Gradient struct {
	source Heightmap
	max    uint32
}

// NewGradient creates an elevation-shaded colormap over source.
// Elevations at or above max render white.
func NewGradient(source Heightmap, max uint32) *Gradient {
	if max == 0 {
		max = 255
	}
	return &Gradient{source: source, max: max}
}

// At returns the shade for the elevation at the given coordinates.
func (g *Gradient) At(x, y uint32) [4]byte {
	e := g.source.At(x, y)
	if e > g.max {
		e = g.max
	}
	v := byte(e * 255 / g.max)
	return [4]byte{v, v, v, 255}
}

// Size returns the domain dimensions.
func (g *Gradient) Size() (uint32, uint32) {
	w, h := g.source.Size()
	return w, h
}

var _ Colormap = (*Gradient)(nil)
