package mosaic

import (
	"github.com/brickforge/brickmap/pkg/errors"

	"github.com/brickforge/brickmap/pkg/heightmap"
)

// Grid holds one tile per input sample in a flat column-major array
// (index = y + x*height). Built once, mutated in place by the merge
// passes, then read out by the emitter.
type Grid struct {
	tiles  []Tile
	width  uint32
	height uint32
}

// NewGrid builds the initial one-tile-per-sample grid from an
// elevation and a color source of equal dimensions.
func NewGrid(hm heightmap.Heightmap, cm heightmap.Colormap) (*Grid, error) {
	width, height := hm.Size()
	if cw, ch := cm.Size(); cw != width || ch != height {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"heightmap is %dx%d but colormap is %dx%d", width, height, cw, ch)
	}

	tiles := make([]Tile, 0, width*height)
	for x := uint32(0); x < width; x++ {
		for y := uint32(0); y < height; y++ {
			t := Tile{
				index:     int(y + x*height),
				x:         x,
				y:         y,
				w:         1,
				h:         1,
				color:     cm.At(x, y),
				elevation: hm.At(x, y),
				neighbors: make(map[uint32]struct{}, 4),
				parent:    noParent,
			}
			for _, n := range [4][2]int64{
				{int64(x) - 1, int64(y)},
				{int64(x) + 1, int64(y)},
				{int64(x), int64(y) - 1},
				{int64(x), int64(y) + 1},
			} {
				if n[0] < 0 || n[0] >= int64(width) || n[1] < 0 || n[1] >= int64(height) {
					continue
				}
				t.neighbors[hm.At(uint32(n[0]), uint32(n[1]))] = struct{}{}
			}
			tiles = append(tiles, t)
		}
	}

	return &Grid{tiles: tiles, width: width, height: height}, nil
}

// index maps grid coordinates to a position in the flat tile array.
func (g *Grid) index(x, y uint32) int {
	return int(y + x*g.height)
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (uint32, uint32) {
	return g.width, g.height
}

// Area returns the total number of cells in the grid.
func (g *Grid) Area() int {
	return int(g.width) * int(g.height)
}

// LiveCount returns the number of tiles not yet merged into another.
func (g *Grid) LiveCount() int {
	n := 0
	for i := range g.tiles {
		if g.tiles[i].live() {
			n++
		}
	}
	return n
}
