package heightmap

// Heightmap returns elevation samples over a rectangular domain.
// Higher values are higher terrain.
type Heightmap interface {
	// At returns the elevation at the given coordinates.
	At(x, y uint32) uint32

	// Size returns the domain dimensions as (width, height).
	Size() (uint32, uint32)
}

// Colormap returns RGBA color samples over a rectangular domain.
// Each component is 0-255; index 3 is alpha.
type Colormap interface {
	// At returns the color at the given coordinates.
	At(x, y uint32) [4]byte

	// Size returns the domain dimensions as (width, height).
	Size() (uint32, uint32)
}

// RawHeightmap is an in-memory elevation buffer. The engine uses it to
// materialize derived elevation layers; tests use it to build small
// fixture terrains. Samples are stored column-major (index = y + x*height).
type RawHeightmap struct {
	width, height uint32
	samples       []uint32
}

// NewRawHeightmap creates a zeroed elevation buffer with the given dimensions.
func NewRawHeightmap(width, height uint32) *RawHeightmap {
	return &RawHeightmap{
		width:   width,
		height:  height,
		samples: make([]uint32, width*height),
	}
}

// Set stores an elevation sample.
func (m *RawHeightmap) Set(x, y, elevation uint32) {
	m.samples[y+x*m.height] = elevation
}

// At returns the elevation at the given coordinates.
func (m *RawHeightmap) At(x, y uint32) uint32 {
	return m.samples[y+x*m.height]
}

// Size returns the buffer dimensions.
func (m *RawHeightmap) Size() (uint32, uint32) {
	return m.width, m.height
}

// RawColormap is an in-memory color buffer, the color counterpart of
// [RawHeightmap].
type RawColormap struct {
	width, height uint32
	samples       [][4]byte
}

// NewRawColormap creates a transparent color buffer with the given dimensions.
func NewRawColormap(width, height uint32) *RawColormap {
	return &RawColormap{
		width:   width,
		height:  height,
		samples: make([][4]byte, width*height),
	}
}

// Set stores a color sample.
func (m *RawColormap) Set(x, y uint32, c [4]byte) {
	m.samples[y+x*m.height] = c
}

// At returns the color at the given coordinates.
func (m *RawColormap) At(x, y uint32) [4]byte {
	return m.samples[y+x*m.height]
}

// Size returns the buffer dimensions.
func (m *RawColormap) Size() (uint32, uint32) {
	return m.width, m.height
}

// Ensure the buffers satisfy the provider interfaces.
var (
	_ Heightmap = (*RawHeightmap)(nil)
	_ Colormap  = (*RawColormap)(nil)
)
