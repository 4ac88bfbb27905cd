package mosaic

// MergeRuns coalesces maximal horizontal or vertical runs of similar
// tiles. Every live tile is tried as a run start: the run extends
// right and down as far as tiles stay line-similar and the combined
// extent times unit stays within the brick size limit. The strictly
// longer of the two candidate runs is committed; ties go to the
// vertical run.
//
// Returns the number of tiles absorbed this pass. Callers loop until a
// pass returns zero.
func (g *Grid) MergeRuns(unit uint32) int {
	count := 0

	for x := uint32(0); x < g.width; x++ {
		for y := uint32(0); y < g.height; y++ {
			startIdx := g.index(x, y)
			start := &g.tiles[startIdx]
			if !start.live() {
				continue
			}

			sx := start.w
			var horiz []int
			for x+sx < g.width {
				i := g.index(x+sx, y)
				t := &g.tiles[i]
				if (sx+t.w)*unit > sizeLimit || !start.similarLine(t) {
					break
				}
				horiz = append(horiz, i)
				sx += t.w
			}

			sy := start.h
			var vert []int
			for y+sy < g.height {
				i := g.index(x, y+sy)
				t := &g.tiles[i]
				if (sy+t.h)*unit > sizeLimit || !start.similarLine(t) {
					break
				}
				vert = append(vert, i)
				sy += t.h
			}

			count += max(len(horiz), len(vert))

			if len(horiz) > len(vert) {
				g.mergeLine(startIdx, horiz)
			} else {
				g.mergeLine(startIdx, vert)
			}
		}
	}

	return count
}

// mergeLine absorbs the given tiles into the start tile, extending its
// extent along the run axis.
func (g *Grid) mergeLine(startIdx int, children []int) {
	if len(children) == 0 {
		return
	}

	start := &g.tiles[startIdx]
	vertical := g.tiles[children[0]].x == start.x

	var grown uint32
	for _, i := range children {
		child := &g.tiles[i]
		child.parent = startIdx
		start.absorbNeighbors(child)
		if vertical {
			grown += child.h
		} else {
			grown += child.w
		}
	}

	if vertical {
		start.h += grown
	} else {
		start.w += grown
	}
}
