package mosaic

import (
	"sort"

	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/heightmap"
)

// Layer is one independently mergeable grid representing an elevation
// band of the domain.
type Layer struct {
	Grid *Grid

	// Elevation is the band's source elevation; for the base layer it
	// is the retained floor everything below collapses into.
	Elevation uint32

	// Offset is the vertical reference used at emission: 0 for the
	// base layer (bricks size against their recorded neighbors), the
	// band's own elevation for basins, and the previous retained
	// elevation for raised terrain.
	Offset uint32

	// Basin marks a band whose representative color also appears at
	// elevation 0, e.g. a lake surface over a visible lakebed.
	Basin bool
}

// BuildLayers splits the domain into merge-eligible grids. With a zero
// threshold the whole domain is a single grid; otherwise every
// distinct elevation above the threshold becomes its own feature
// layer on top of a base layer that collapses all lower terrain into
// one band.
func BuildLayers(hm heightmap.Heightmap, cm heightmap.Colormap, threshold uint32) ([]*Layer, error) {
	if threshold == 0 {
		g, err := NewGrid(hm, cm)
		if err != nil {
			return nil, err
		}
		return []*Layer{{Grid: g}}, nil
	}

	width, height := hm.Size()
	if cw, ch := cm.Size(); cw != width || ch != height {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"heightmap is %dx%d but colormap is %dx%d", width, height, cw, ch)
	}

	// Pre-scan: one representative color per distinct elevation
	// (first seen wins) and the set of colors present at elevation 0.
	representative := make(map[uint32][4]byte)
	zeroColors := make(map[[4]byte]struct{})
	for x := uint32(0); x < width; x++ {
		for y := uint32(0); y < height; y++ {
			e := hm.At(x, y)
			c := cm.At(x, y)
			if _, ok := representative[e]; !ok {
				representative[e] = c
			}
			if e == 0 {
				zeroColors[c] = struct{}{}
			}
		}
	}

	// Everything at or below the threshold collapses into the single
	// highest such band; everything above keeps its own band.
	var floor uint32
	haveFloor := false
	var retained []uint32
	for e := range representative {
		if e > threshold {
			retained = append(retained, e)
		} else if !haveFloor || e > floor {
			floor = e
			haveFloor = true
		}
	}
	if haveFloor {
		retained = append(retained, floor)
	}
	if len(retained) == 0 {
		g, err := NewGrid(hm, cm)
		if err != nil {
			return nil, err
		}
		return []*Layer{{Grid: g}}, nil
	}
	sort.Slice(retained, func(i, j int) bool { return retained[i] < retained[j] })

	base := retained[0]
	baseHM := heightmap.NewRawHeightmap(width, height)
	baseCM := heightmap.NewRawColormap(width, height)
	for x := uint32(0); x < width; x++ {
		for y := uint32(0); y < height; y++ {
			e := hm.At(x, y)
			if e <= base {
				baseHM.Set(x, y, e)
				baseCM.Set(x, y, cm.At(x, y))
			} else {
				baseHM.Set(x, y, base)
				baseCM.Set(x, y, representative[base])
			}
		}
	}
	baseGrid, err := NewGrid(baseHM, baseCM)
	if err != nil {
		return nil, err
	}
	layers := []*Layer{{Grid: baseGrid, Elevation: base}}

	prev := base
	for _, h := range retained[1:] {
		color := representative[h]
		_, basin := zeroColors[color]

		layerHM := heightmap.NewRawHeightmap(width, height)
		layerCM := heightmap.NewRawColormap(width, height)
		for x := uint32(0); x < width; x++ {
			for y := uint32(0); y < height; y++ {
				e := hm.At(x, y)
				qualifies := e >= h
				if basin {
					// A basin surface only covers cells that sampled
					// exactly this band's color and elevation.
					qualifies = cm.At(x, y) == color && e == h
				}
				if qualifies {
					layerHM.Set(x, y, h)
					layerCM.Set(x, y, color)
				}
				// Non-qualifying cells stay at elevation 0 with a
				// transparent color so culling drops them.
			}
		}
		grid, err := NewGrid(layerHM, layerCM)
		if err != nil {
			return nil, err
		}

		offset := prev
		if basin {
			offset = h
		}
		layers = append(layers, &Layer{Grid: grid, Elevation: h, Offset: offset, Basin: basin})
		prev = h
	}

	return layers, nil
}
