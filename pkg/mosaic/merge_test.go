package mosaic

import "testing"

func TestQuadMergeUniform2x2(t *testing.T) {
	hm, cm := uniformMaps(2, 2, 5, opaque)
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if got := g.QuadMergeLevel(0); got != 3 {
		t.Fatalf("QuadMergeLevel(0) = %d, want 3", got)
	}

	live := liveTiles(g)
	if len(live) != 1 {
		t.Fatalf("live tiles = %d, want 1", len(live))
	}
	if live[0].w != 2 || live[0].h != 2 {
		t.Errorf("merged extent = (%d,%d), want (2,2)", live[0].w, live[0].h)
	}
	checkPartition(t, g)
}

func TestQuadMergeRequiresUniformProperties(t *testing.T) {
	tests := []struct {
		name  string
		elev  func(x, y uint32) uint32
		color func(x, y uint32) [4]byte
	}{
		{
			name:  "one cell differs in color",
			elev:  func(x, y uint32) uint32 { return 5 },
			color: func(x, y uint32) [4]byte { return [4]byte{byte(x * 100), 0, 0, 255} },
		},
		{
			name:  "one cell differs in elevation",
			elev:  func(x, y uint32) uint32 { return 5 + x + y },
			color: func(x, y uint32) [4]byte { return opaque },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm, cm := makeMaps(2, 2, tt.elev, tt.color)
			g, err := NewGrid(hm, cm)
			if err != nil {
				t.Fatalf("NewGrid: %v", err)
			}
			if got := g.QuadMergeLevel(0); got != 0 {
				t.Errorf("QuadMergeLevel(0) = %d, want 0", got)
			}
			if got := g.LiveCount(); got != 4 {
				t.Errorf("LiveCount() = %d, want 4", got)
			}
		})
	}
}

func TestQuadMergeEscalates(t *testing.T) {
	hm, cm := uniformMaps(4, 4, 2, opaque)
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if got := g.QuadMergeLevel(0); got != 12 {
		t.Fatalf("QuadMergeLevel(0) = %d, want 12 (four 2x2 merges)", got)
	}
	if got := g.QuadMergeLevel(1); got != 3 {
		t.Fatalf("QuadMergeLevel(1) = %d, want 3", got)
	}

	live := liveTiles(g)
	if len(live) != 1 {
		t.Fatalf("live tiles = %d, want 1", len(live))
	}
	if live[0].w != 4 || live[0].h != 4 {
		t.Errorf("merged extent = (%d,%d), want (4,4)", live[0].w, live[0].h)
	}
	checkPartition(t, g)
}

func TestQuadMergeAbsorbsNeighborElevations(t *testing.T) {
	// A taller ridge right of the block shows up only in the right
	// column's neighbor sets before merging.
	hm, cm := makeMaps(3, 2,
		func(x, y uint32) uint32 {
			if x == 2 {
				return 9
			}
			return 5
		},
		func(x, y uint32) [4]byte { return opaque })
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if got := g.QuadMergeLevel(0); got != 3 {
		t.Fatalf("QuadMergeLevel(0) = %d, want 3", got)
	}
	merged := &g.tiles[g.index(0, 0)]
	if _, ok := merged.neighbors[9]; !ok {
		t.Error("merged tile lost the ridge elevation from an absorbed tile")
	}
}

func TestMergeRunsRow(t *testing.T) {
	hm, cm := uniformMaps(4, 1, 3, opaque)
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	if got := g.MergeRuns(5); got != 3 {
		t.Fatalf("MergeRuns() = %d, want 3", got)
	}
	live := liveTiles(g)
	if len(live) != 1 {
		t.Fatalf("live tiles = %d, want 1", len(live))
	}
	if live[0].w != 4 || live[0].h != 1 {
		t.Errorf("run extent = (%d,%d), want (4,1)", live[0].w, live[0].h)
	}
	checkPartition(t, g)
}

func TestMergeRunsTieFavorsVertical(t *testing.T) {
	hm, cm := uniformMaps(2, 2, 3, opaque)
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	// First pass: both candidate runs from each start have length 1,
	// so the tie commits the vertical run.
	if got := g.MergeRuns(5); got != 2 {
		t.Fatalf("MergeRuns() = %d, want 2", got)
	}
	for _, tile := range liveTiles(g) {
		if tile.w != 1 || tile.h != 2 {
			t.Errorf("tile (%d,%d) extent = (%d,%d), want vertical (1,2)",
				tile.x, tile.y, tile.w, tile.h)
		}
	}
	checkPartition(t, g)
}

func TestMergeRunsSizeBound(t *testing.T) {
	hm, cm := uniformMaps(4, 1, 3, opaque)
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	// At 250 units per cell a run of two already reaches the 500-unit
	// brick limit, so longer runs must not form.
	const unit = 250
	for g.MergeRuns(unit) > 0 {
	}
	for _, tile := range liveTiles(g) {
		if tile.w*unit > sizeLimit {
			t.Errorf("tile width %d cells exceeds size limit at unit %d", tile.w, unit)
		}
	}
	if got := g.LiveCount(); got != 2 {
		t.Errorf("LiveCount() = %d, want 2", got)
	}
	checkPartition(t, g)
}

func TestMergeRunsFixpointIdempotent(t *testing.T) {
	hm, cm := makeMaps(6, 6,
		func(x, y uint32) uint32 { return (x / 2) + (y / 3) },
		func(x, y uint32) [4]byte { return opaque })
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	for g.MergeRuns(5) > 0 {
	}
	if got := g.MergeRuns(5); got != 0 {
		t.Errorf("MergeRuns() after fixpoint = %d, want 0", got)
	}
	checkPartition(t, g)
}

func TestMergePassesMonotonicReduction(t *testing.T) {
	hm, cm := makeMaps(8, 8,
		func(x, y uint32) uint32 { return x / 4 },
		func(x, y uint32) [4]byte { return opaque })
	g, err := NewGrid(hm, cm)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	prev := g.LiveCount()
	for level := uint32(0); level < 3; level++ {
		g.QuadMergeLevel(level)
		if got := g.LiveCount(); got > prev {
			t.Fatalf("live count grew from %d to %d after quad level %d", prev, got, level)
		} else {
			prev = got
		}
		checkPartition(t, g)
	}
	for {
		removed := g.MergeRuns(5)
		got := g.LiveCount()
		if got > prev {
			t.Fatalf("live count grew from %d to %d after run pass", prev, got)
		}
		prev = got
		checkPartition(t, g)
		if removed == 0 {
			break
		}
	}
}
