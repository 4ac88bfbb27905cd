package heightmap

// Flat is a heightmap with a uniform elevation of 1 across the whole
// domain, used when rendering an image as a flat sheet of bricks.
type Flat struct {
	width, height uint32
}

// NewFlat creates a flat heightmap with the given dimensions.
func NewFlat(width, height uint32) *Flat {
	return &Flat{width: width, height: height}
}

// At returns the constant elevation.
func (m *Flat) At(x, y uint32) uint32 {
	return 1
}

// Size returns the domain dimensions.
func (m *Flat) Size() (uint32, uint32) {
	return m.width, m.height
}

var _ Heightmap = (*Flat)(nil)
