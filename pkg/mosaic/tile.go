package mosaic

// noParent marks a tile that has not been merged into another tile.
const noParent = -1

// Tile is one cell or merged rectangular region of the grid. A tile
// starts as a single cell and only grows through merges; merged-away
// tiles keep their data but point at the tile that absorbed them.
type Tile struct {
	// index is the tile's position in the grid's flat array.
	index int

	// x, y anchor the tile's top-left corner in grid coordinates.
	x, y uint32

	// w, h are the tile's extent in grid cells.
	w, h uint32

	color     [4]byte
	elevation uint32

	// neighbors holds the distinct elevations of the grid-adjacent
	// cells at build time, used to size bricks relative to the
	// surrounding terrain.
	neighbors map[uint32]struct{}

	// parent is the index of the absorbing tile, or noParent.
	parent int
}

// live reports whether the tile is still eligible for merging and
// emission.
func (t *Tile) live() bool {
	return t.parent == noParent
}

// similarQuad reports whether other can join a quad merge with t:
// identical extent, color, and elevation, and neither tile already
// merged away.
func (t *Tile) similarQuad(other *Tile) bool {
	return t.w == other.w && t.h == other.h &&
		t.color == other.color &&
		t.elevation == other.elevation &&
		t.live() && other.live()
}

// similarLine reports whether other can extend a run starting at t.
// The tiles must share a row or column, match extent along the
// orthogonal axis, and agree on color and elevation.
func (t *Tile) similarLine(other *Tile) bool {
	sameColumn := t.x == other.x
	sameRow := t.y == other.y

	return (sameColumn && t.w == other.w || sameRow && t.h == other.h) &&
		t.color == other.color &&
		t.elevation == other.elevation &&
		t.live() && other.live()
}

// absorbNeighbors unions other's neighbor elevations into t.
func (t *Tile) absorbNeighbors(other *Tile) {
	for e := range other.neighbors {
		t.neighbors[e] = struct{}{}
	}
}

// minNeighbor returns the lowest recorded neighbor elevation, or 0
// when the tile has none.
func (t *Tile) minNeighbor() uint32 {
	var min uint32
	first := true
	for e := range t.neighbors {
		if first || e < min {
			min = e
			first = false
		}
	}
	return min
}
