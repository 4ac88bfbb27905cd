package mosaic

import (
	"testing"

	"github.com/brickforge/brickmap/pkg/brs"
)

// emitOpts returns validated engine options, optionally mutated first.
func emitOpts(t *testing.T, mutate func(*Options)) *Options {
	t.Helper()
	opts := &Options{}
	if mutate != nil {
		mutate(opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	return opts
}

func singleTileGrid(t *testing.T, elev uint32, color [4]byte) *Grid {
	t.Helper()
	hm, cm := uniformMaps(1, 1, elev, color)
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestEmitCullsTransparent(t *testing.T) {
	g := singleTileGrid(t, 5, [4]byte{10, 10, 10, 0})
	opts := emitOpts(t, func(o *Options) { o.Cull = true })

	if got := g.Emit(opts, 0, false); len(got) != 0 {
		t.Errorf("emitted %d bricks for a transparent tile, want 0", len(got))
	}
}

func TestEmitCullsGroundLevel(t *testing.T) {
	opts := emitOpts(t, func(o *Options) { o.Cull = true })

	if got := singleTileGrid(t, 0, opaque).Emit(opts, 0, false); len(got) != 0 {
		t.Errorf("emitted %d bricks for ground level unlayered, want 0", len(got))
	}
	// Layered base grids keep their elevation-0 cells.
	if got := singleTileGrid(t, 0, opaque).Emit(opts, 0, true); len(got) != 1 {
		t.Errorf("emitted %d bricks for ground level layered, want 1", len(got))
	}
}

func TestEmitSingleTileGeometry(t *testing.T) {
	g := singleTileGrid(t, 5, opaque)
	opts := emitOpts(t, func(o *Options) { o.Scale = 2 })

	bricks := g.Emit(opts, 0, false)
	if len(bricks) != 1 {
		t.Fatalf("emitted %d bricks, want 1", len(bricks))
	}

	// Top at scale*elevation = 10, thickness (5-0+1)*2/2 = 6, so the
	// brick center sits at z - h + 2.
	want := brs.Brick{
		AssetNameIndex: brs.AssetBrick,
		Size:           [3]uint32{5, 5, 6},
		Position:       [3]int32{5, 5, 6},
		Collision:      brs.Collision{Player: true, Weapon: true, Interaction: true, Tool: true},
		Visibility:     true,
		MaterialIndex:  brs.MaterialPlastic,
		Color:          brs.Color{R: opaque[0], G: opaque[1], B: opaque[2], A: opaque[3]},
		OwnerIndex:     1,
	}
	if bricks[0] != want {
		t.Errorf("brick = %+v, want %+v", bricks[0], want)
	}
}

func TestEmitStacksTallTiles(t *testing.T) {
	g := singleTileGrid(t, 600, opaque)
	opts := emitOpts(t, nil)

	bricks := g.Emit(opts, 0, false)
	if len(bricks) != 2 {
		t.Fatalf("emitted %d bricks, want a stack of 2", len(bricks))
	}
	if bricks[0].Size[2] != 250 {
		t.Errorf("first segment thickness = %d, want the 250 cap", bricks[0].Size[2])
	}
	if bricks[1].Size[2] != 50 {
		t.Errorf("second segment thickness = %d, want remainder 50", bricks[1].Size[2])
	}
	if bricks[0].Position[2] != 352 || bricks[1].Position[2] != 52 {
		t.Errorf("segment z = (%d, %d), want (352, 52)",
			bricks[0].Position[2], bricks[1].Position[2])
	}
	for _, b := range bricks {
		if b.Size[2] > 250 {
			t.Errorf("thickness %d exceeds the per-brick cap", b.Size[2])
		}
	}
}

func TestEmitSnapAligns(t *testing.T) {
	g := singleTileGrid(t, 1, opaque)
	opts := emitOpts(t, func(o *Options) { o.Snap = true })

	bricks := g.Emit(opts, 0, false)
	if len(bricks) != 1 {
		t.Fatalf("emitted %d bricks, want 1", len(bricks))
	}
	// z rounds 1 -> 4 and thickness 2 -> 4.
	if bricks[0].Size[2] != 4 {
		t.Errorf("thickness = %d, want snapped 4", bricks[0].Size[2])
	}
	if bricks[0].Position[2] != 2 {
		t.Errorf("z = %d, want 2", bricks[0].Position[2])
	}
}

func TestEmitStudMinimumThickness(t *testing.T) {
	g := singleTileGrid(t, 1, opaque)
	opts := emitOpts(t, func(o *Options) { o.Style = StyleStud })

	bricks := g.Emit(opts, 0, false)
	if len(bricks) != 1 {
		t.Fatalf("emitted %d bricks, want 1", len(bricks))
	}
	if bricks[0].AssetNameIndex != brs.AssetStudded {
		t.Errorf("asset = %d, want studded", bricks[0].AssetNameIndex)
	}
	if bricks[0].Size[2] != 5 {
		t.Errorf("thickness = %d, want stud minimum 5", bricks[0].Size[2])
	}
}

func TestEmitMicroImageUniformThickness(t *testing.T) {
	g := singleTileGrid(t, 1, opaque)
	opts := emitOpts(t, func(o *Options) {
		o.Style = StyleMicro
		o.Img = true
	})

	bricks := g.Emit(opts, 0, false)
	if len(bricks) != 1 {
		t.Fatalf("emitted %d bricks, want 1", len(bricks))
	}
	// Micro image mode renders uniform cubes at the cell unit size.
	want := [3]uint32{1, 1, 1}
	if bricks[0].Size != want {
		t.Errorf("size = %v, want %v", bricks[0].Size, want)
	}
	if bricks[0].AssetNameIndex != brs.AssetMicroBrick {
		t.Errorf("asset = %d, want micro", bricks[0].AssetNameIndex)
	}
}

func TestEmitGlowMaterial(t *testing.T) {
	g := singleTileGrid(t, 1, opaque)
	opts := emitOpts(t, func(o *Options) { o.Glow = true })

	bricks := g.Emit(opts, 0, false)
	if bricks[0].MaterialIndex != brs.MaterialGlow {
		t.Errorf("material = %d, want glow", bricks[0].MaterialIndex)
	}
	if bricks[0].MaterialIntensity != 0 {
		t.Errorf("intensity = %d, want 0", bricks[0].MaterialIntensity)
	}
}

func TestEmitNoCollide(t *testing.T) {
	g := singleTileGrid(t, 1, opaque)
	opts := emitOpts(t, func(o *Options) { o.NoCollide = true })

	got := g.Emit(opts, 0, false)[0].Collision
	want := brs.Collision{Player: false, Weapon: false, Interaction: false, Tool: true}
	if got != want {
		t.Errorf("collision = %+v, want %+v", got, want)
	}
}

func TestEmitLayerOffsetCorrection(t *testing.T) {
	g := singleTileGrid(t, 7, opaque)
	opts := emitOpts(t, nil)

	// A basin band references its own elevation: minimum thickness 2
	// plus the 4-unit layered correction, with the top lifted by 4.
	bricks := g.Emit(opts, 7, true)
	if len(bricks) != 1 {
		t.Fatalf("emitted %d bricks, want 1", len(bricks))
	}
	if bricks[0].Size[2] != 6 {
		t.Errorf("thickness = %d, want 6", bricks[0].Size[2])
	}
	if bricks[0].Position[2] != 7 {
		t.Errorf("z = %d, want 7", bricks[0].Position[2])
	}
}

func TestEmitMergeSoundness(t *testing.T) {
	opts := emitOpts(t, nil)

	build := func() *Grid {
		hm, cm := uniformMaps(2, 2, 5, opaque)
		g, err := NewGrid(hm, cm)
		if err != nil {
			t.Fatalf("NewGrid: %v", err)
		}
		return g
	}

	footprint := func(bricks []brs.Brick) uint64 {
		var area uint64
		for _, b := range bricks {
			area += uint64(b.Size[0]) * uint64(b.Size[1])
		}
		return area
	}

	unmerged := build().Emit(opts, 0, false)
	merged := build()
	merged.QuadMergeLevel(0)
	mergedBricks := merged.Emit(opts, 0, false)

	if len(mergedBricks) != 1 || len(unmerged) != 4 {
		t.Fatalf("brick counts = (%d merged, %d unmerged), want (1, 4)",
			len(mergedBricks), len(unmerged))
	}
	if footprint(mergedBricks) != footprint(unmerged) {
		t.Errorf("merged footprint %d != unmerged footprint %d",
			footprint(mergedBricks), footprint(unmerged))
	}
	if mergedBricks[0].Size[2] != unmerged[0].Size[2] {
		t.Errorf("merged thickness %d != unmerged thickness %d",
			mergedBricks[0].Size[2], unmerged[0].Size[2])
	}
}
