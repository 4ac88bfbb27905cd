package mosaic

import (
	"math"

	"github.com/brickforge/brickmap/pkg/brs"
	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/heightmap"
)

// ProgressFunc receives a monotonically non-decreasing fraction in
// [0,1] at fixed milestones. Returning false cancels the run at the
// next checkpoint; a cancelled run produces no bricks.
type ProgressFunc func(fraction float64) bool

// Progress fractions for the fixed pipeline milestones. The 0.75
// between build and emit is split evenly across layers, and within a
// layer two thirds go to quad merging when it is enabled.
const (
	progressBuilt   = 0.2
	progressMerged  = 0.95
	layerSpanBudget = progressMerged - progressBuilt
	quadShare       = 2.0 / 3.0
	runProgressCap  = 5.0
)

// Generate runs the full conversion: build the tile grid(s), merge,
// and emit bricks. The progress callback may be nil.
func Generate(hm heightmap.Heightmap, cm heightmap.Colormap, opts Options, progress ProgressFunc) ([]brs.Brick, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	report := func(p float64) error {
		if progress != nil && !progress(p) {
			return errors.New(errors.ErrCodeCancelled, "conversion cancelled")
		}
		return nil
	}

	if err := report(0); err != nil {
		return nil, err
	}

	logger.Info("building tile grid")
	width, height := hm.Size()
	area := int(width) * int(height)
	layers, err := BuildLayers(hm, cm, opts.LayerThreshold)
	if err != nil {
		return nil, err
	}
	layered := len(layers) > 1
	if layered {
		logger.Info("split domain into layers", "count", len(layers))
	}
	if err := report(progressBuilt); err != nil {
		return nil, err
	}

	span := layerSpanBudget / float64(len(layers))
	for li, layer := range layers {
		base := progressBuilt + float64(li)*span
		runBase, runSpan := base, span

		if opts.ShouldQuadMerge() {
			logger.Info("merging quads", "layer", li)
			quadSpan := span * quadShare

			// Escalation depth for progress estimation only; the loop
			// below stops on the size limit or a zero-merge level.
			levels := math.Log2(float64(sizeLimit) / float64(opts.unit))
			if levels < 1 {
				levels = 1
			}

			level := uint32(0)
			for (uint64(1)<<(level+1))*uint64(opts.unit) < sizeLimit {
				frac := math.Min(float64(level)/levels, 1)
				if err := report(base + quadSpan*frac); err != nil {
					return nil, err
				}
				removed := layer.Grid.QuadMergeLevel(level)
				if removed == 0 {
					break
				}
				logger.Debug("merged quads", "layer", li, "scale", uint32(1)<<level, "removed", removed)
				level++
			}
			if err := report(base + quadSpan); err != nil {
				return nil, err
			}
			runBase = base + quadSpan
			runSpan = span - quadSpan
		}

		logger.Info("merging runs", "layer", li)
		for i := 1; ; i++ {
			removed := layer.Grid.MergeRuns(opts.unit)
			frac := math.Min(float64(i)/runProgressCap, 1)
			if err := report(runBase + runSpan*frac); err != nil {
				return nil, err
			}
			if removed == 0 {
				break
			}
			logger.Debug("merged runs", "layer", li, "removed", removed)
		}
	}

	if err := report(progressMerged); err != nil {
		return nil, err
	}

	var bricks []brs.Brick
	for _, layer := range layers {
		bricks = append(bricks, layer.Grid.Emit(&opts, layer.Offset, layered)...)
	}

	if area > 0 {
		logger.Info("emitted bricks",
			"cells", area,
			"bricks", len(bricks),
			"reduction", math.Floor(100-float64(len(bricks))/float64(area)*100))
	}

	if err := report(1); err != nil {
		return nil, err
	}
	return bricks, nil
}
