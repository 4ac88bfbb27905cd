// Package pipeline provides the core conversion pipeline for brickmap.
//
// This package implements the complete decode → generate → encode pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: Read elevation and color samples from image files (or a
//     procedural noise source)
//  2. Generate: Run the merge engine to produce the minimal brick list
//  3. Encode: Serialize the bricks into a save file
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Heightmaps: []string{"terrain.png"},
//	    Colormap:   "colors.png",
//	    Engine:     mosaic.Options{Size: 2, Cull: true},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.brs", result.Save, 0644)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/brickforge/brickmap/pkg/brs"
	"github.com/brickforge/brickmap/pkg/cache"
	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/mosaic"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultOwnerName is attributed to generated bricks when no owner
	// is configured.
	DefaultOwnerName = "Generator"

	// DefaultProceduralSize is the edge length of generated terrain
	// when no dimensions are configured.
	DefaultProceduralSize = 256

	// DefaultProceduralMax is the elevation ceiling of generated
	// terrain.
	DefaultProceduralMax = 120
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the conversion pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Heightmaps []string `json:"heightmaps,omitempty"` // elevation image paths, summed per cell
	Colormap   string   `json:"colormap,omitempty"`   // color image path (defaults to the first heightmap)
	HDMap      bool     `json:"hdmap,omitempty"`      // inputs encode 32-bit elevations across RGBA
	LRGB       bool     `json:"lrgb,omitempty"`       // colormap is already linear, skip sRGB conversion

	// Procedural input (alternative to image files)
	Procedural bool   `json:"procedural,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
	Width      uint32 `json:"width,omitempty"`
	Height     uint32 `json:"height,omitempty"`

	// Engine options
	Engine mosaic.Options `json:"engine"`

	// Output options
	OwnerID   string `json:"owner_id,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"` // bypass cached artifacts

	// Runtime options (not serialized)
	Logger   *log.Logger         `json:"-"`
	Progress mosaic.ProgressFunc `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Bricks is the generated brick list. Empty when the encoded save
	// came straight from the cache.
	Bricks []brs.Brick

	// Save is the encoded save file.
	Save []byte

	// InputHash is the content hash identifying the inputs and engine
	// options, used for cache keys.
	InputHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width      uint32
	Height     uint32
	BrickCount int

	DecodeTime   time.Duration
	GenerateTime time.Duration
	EncodeTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BrickHit bool // Whether the brick list came from cache
	SaveHit  bool // Whether the encoded save came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent - calling it multiple
// times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Procedural {
		if len(o.Heightmaps) > 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"procedural terrain cannot be combined with heightmap images")
		}
		if o.Width == 0 {
			o.Width = DefaultProceduralSize
		}
		if o.Height == 0 {
			o.Height = DefaultProceduralSize
		}
	} else {
		if len(o.Heightmaps) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "at least one heightmap is required")
		}
		for _, path := range o.Heightmaps {
			if err := errors.ValidateImagePath(path); err != nil {
				return err
			}
		}
		if o.Colormap == "" {
			o.Colormap = o.Heightmaps[0]
		}
		if err := errors.ValidateImagePath(o.Colormap); err != nil {
			return err
		}
	}

	if o.OwnerName == "" {
		o.OwnerName = DefaultOwnerName
	}
	if err := errors.ValidateOwnerName(o.OwnerName); err != nil {
		return err
	}

	if o.Engine.Logger == nil {
		o.Engine.Logger = o.Logger
	}
	if err := o.Engine.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = o.Engine.Logger
	}

	o.validated = true
	return nil
}

// Owner resolves the configured owner identity. An unparseable or
// empty ID falls back to the fixed generator identity.
func (o *Options) Owner() (uuid.UUID, string) {
	id, err := uuid.Parse(o.OwnerID)
	if err != nil {
		id = brs.DefaultOwnerID
	}
	name := o.OwnerName
	if name == "" {
		name = DefaultOwnerName
	}
	return id, name
}

// BrickKeyOpts returns cache key options for the generated brick list.
func (o *Options) BrickKeyOpts() cache.BrickKeyOpts {
	return cache.BrickKeyOpts{
		Size:           o.Engine.Size,
		Scale:          o.Engine.Scale,
		Style:          o.Engine.Style,
		Cull:           o.Engine.Cull,
		Snap:           o.Engine.Snap,
		Img:            o.Engine.Img,
		Glow:           o.Engine.Glow,
		NoCollide:      o.Engine.NoCollide,
		SkipQuadtree:   o.Engine.SkipQuadtree,
		LayerThreshold: o.Engine.LayerThreshold,
	}
}

// SaveKeyOpts returns cache key options for the encoded save file.
func (o *Options) SaveKeyOpts() cache.SaveKeyOpts {
	id, name := o.Owner()
	return cache.SaveKeyOpts{
		OwnerID:   id.String(),
		OwnerName: name,
	}
}
