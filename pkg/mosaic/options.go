package mosaic

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/brickforge/brickmap/pkg/brs"
	"github.com/brickforge/brickmap/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultSize is the default brick footprint size in studs.
	DefaultSize = 1

	// DefaultScale is the default vertical scale multiplier.
	DefaultScale = 1

	// studUnits is the number of engine units per stud.
	studUnits = 5

	// sizeLimit is the maximum half-extent of a brick along any
	// horizontal axis, in engine units.
	sizeLimit = brs.MaxBrickExtent

	// maxThickness is the maximum brick thickness in engine units.
	maxThickness = 250

	// snapGrid is the alignment step used when grid snapping is on.
	snapGrid = 4
)

// Style constants for the brick style selector.
const (
	StylePlain = "plain"
	StyleTile  = "tile"
	StyleMicro = "micro"
	StyleStud  = "stud"
)

// ValidStyles is the set of supported brick styles.
var ValidStyles = map[string]bool{
	StylePlain: true,
	StyleTile:  true,
	StyleMicro: true,
	StyleStud:  true,
}

// ValidateStyle checks that a brick style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: plain, tile, micro, stud)", style)
	}
	return nil
}

// =============================================================================
// Options - Engine Configuration
// =============================================================================

// Options contains all configuration for a conversion run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Size is the brick footprint size in studs.
	Size uint32 `json:"size,omitempty"`

	// Scale multiplies elevation samples into vertical engine units.
	Scale uint32 `json:"scale,omitempty"`

	// Style selects the brick asset: plain, tile, micro, or stud.
	Style string `json:"style,omitempty"`

	// Cull removes fully transparent tiles and, outside layered mode,
	// zero-elevation tiles.
	Cull bool `json:"cull,omitempty"`

	// Snap aligns brick positions and thicknesses to the 4-unit grid.
	Snap bool `json:"snap,omitempty"`

	// Img treats the input as a flat image: every brick gets the same
	// uniform thickness instead of following the elevation field.
	Img bool `json:"img,omitempty"`

	// Glow renders bricks with the glow material at zero intensity.
	Glow bool `json:"glow,omitempty"`

	// NoCollide disables player, weapon, and interaction collision.
	NoCollide bool `json:"no_collide,omitempty"`

	// SkipQuadtree disables the quad merge pass, leaving only run
	// merging (default: false = quad merge enabled).
	SkipQuadtree bool `json:"skip_quadtree,omitempty"`

	// LayerThreshold enables vertical layering when nonzero: elevations
	// above it each become their own feature layer.
	LayerThreshold uint32 `json:"layer_threshold,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Derived at validation time.
	unit  uint32
	asset uint32

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Style == "" {
		o.Style = StylePlain
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := errors.ValidateStudSize(int(o.Size)); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	// Micro bricks are 1/5 scale, so a grid cell spans one engine unit
	// per configured stud instead of five.
	o.unit = o.Size * studUnits
	switch o.Style {
	case StyleTile:
		o.asset = brs.AssetTile
	case StyleMicro:
		o.unit = o.Size
		o.asset = brs.AssetMicroBrick
	case StyleStud:
		o.asset = brs.AssetStudded
	default:
		o.asset = brs.AssetBrick
	}

	o.validated = true
	return nil
}

// ShouldQuadMerge returns whether the quad merge pass runs.
func (o *Options) ShouldQuadMerge() bool {
	return !o.SkipQuadtree
}

// Unit returns the engine units spanned by one grid cell half-extent.
func (o *Options) Unit() uint32 {
	return o.unit
}

// minThickness returns the smallest legal brick thickness for the
// configured style.
func (o *Options) minThickness() int {
	if o.Style == StyleStud {
		return studUnits
	}
	return 2
}
