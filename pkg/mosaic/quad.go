package mosaic

// QuadMergeLevel coalesces aligned 2x2 blocks of tiles at the given
// power-of-two scale. At level L each candidate tile spans space=2^L
// cells per side; the scan steps by 2*space so a merged block is the
// next level's candidate. A block merges only when its top-left tile
// spans exactly space cells and all four tiles agree on extent, color,
// and elevation.
//
// Returns the number of tiles eliminated, three per successful merge.
func (g *Grid) QuadMergeLevel(level uint32) int {
	count := 0
	space := uint32(1) << level
	step := 2 * space

	for x := uint32(0); x+space < g.width; x += step {
		for y := uint32(0); y+space < g.height; y += step {
			tl := &g.tiles[g.index(x, y)]
			tr := &g.tiles[g.index(x+space, y)]
			bl := &g.tiles[g.index(x, y+space)]
			br := &g.tiles[g.index(x+space, y+space)]

			if tl.w != space ||
				!tl.similarQuad(tr) ||
				!tl.similarQuad(bl) ||
				!tl.similarQuad(br) {
				continue
			}

			// Four tiles collapse into one, eliminating three.
			count += 3

			tl.w *= 2
			tl.h *= 2
			tl.absorbNeighbors(tr)
			tl.absorbNeighbors(bl)
			tl.absorbNeighbors(br)
			tr.parent = tl.index
			bl.parent = tl.index
			br.parent = tl.index
		}
	}

	return count
}
