package mosaic

import (
	"github.com/brickforge/brickmap/pkg/brs"
)

// Emit expands every live tile into one or more stacked bricks.
//
// A tile's top sits at scale*elevation and its thickness grows with
// the drop to its vertical reference: the layer offset when nonzero,
// otherwise the lowest neighbor elevation recorded at build time.
// Thickness beyond the per-brick maximum is split into a stack, each
// segment clamped to the style's minimum unit. The layered flag
// relaxes culling so base-layer cells at elevation 0 still emit.
func (g *Grid) Emit(opts *Options, offset uint32, layered bool) []brs.Brick {
	var bricks []brs.Brick
	unit := opts.unit
	minUnit := opts.minThickness()
	material := brs.MaterialPlastic
	if opts.Glow {
		material = brs.MaterialGlow
	}

	for i := range g.tiles {
		t := &g.tiles[i]
		if !t.live() {
			continue
		}
		if opts.Cull && (t.color[3] == 0 || !layered && t.elevation == 0) {
			continue
		}

		z := int(opts.Scale) * int(t.elevation)

		ref := int(offset)
		if ref == 0 {
			ref = int(t.minNeighbor())
		}
		raw := int(t.elevation) - ref + 1
		if raw < 2 {
			raw = 2
		}
		desired := raw * int(opts.Scale) / 2
		if desired < 2 {
			desired = 2
		}

		if opts.Snap {
			z += snapGrid - z%snapGrid
			desired += snapGrid - desired%snapGrid
		}
		if layered && offset != 0 {
			// Feature layers sit one grid step higher so their
			// underside clears the band below.
			z += snapGrid
			desired += snapGrid
		}

		for desired > 0 {
			h := desired
			if h < minUnit {
				h = minUnit
			}
			if h > maxThickness {
				h = maxThickness
			}
			h += h % minUnit

			sizeZ := uint32(h)
			if opts.Img && opts.Style == StyleMicro {
				sizeZ = unit
			}

			bricks = append(bricks, brs.Brick{
				AssetNameIndex: opts.asset,
				Size:           [3]uint32{t.w * unit, t.h * unit, sizeZ},
				Position: [3]int32{
					int32((t.x*2 + t.w) * unit),
					int32((t.y*2 + t.h) * unit),
					int32(z - h + 2),
				},
				Collision: brs.Collision{
					Player:      !opts.NoCollide,
					Weapon:      !opts.NoCollide,
					Interaction: !opts.NoCollide,
					Tool:        true,
				},
				Visibility:    true,
				MaterialIndex: material,
				Color: brs.Color{
					R: t.color[0],
					G: t.color[1],
					B: t.color[2],
					A: t.color[3],
				},
				OwnerIndex: 1,
			})

			desired -= h
			z -= h * 2
		}
	}

	return bricks
}
