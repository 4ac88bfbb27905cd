// Package cache provides caching for conversion artifacts.
//
// Two artifact kinds are cached: generated brick lists (keyed by the
// input image content hash plus engine options) and encoded save files
// (keyed by the same hash plus owner identity). The CLI uses a
// file-based cache under the user cache directory; serve mode can
// point at Redis so replicas share artifacts.
package cache

import (
	"context"
	"time"
)

// TTL values for the different artifact kinds.
const (
	// TTLBricks is how long generated brick lists are kept. Inputs are
	// content-addressed, so entries only go stale when the engine
	// changes.
	TTLBricks = 24 * time.Hour

	// TTLSave is how long encoded save files are kept.
	TTLSave = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// BrickKeyOpts are the engine options that affect generated bricks.
// Two conversions with equal input hashes and equal BrickKeyOpts
// produce identical brick lists.
type BrickKeyOpts struct {
	Size           uint32 `json:"size"`
	Scale          uint32 `json:"scale"`
	Style          string `json:"style"`
	Cull           bool   `json:"cull"`
	Snap           bool   `json:"snap"`
	Img            bool   `json:"img"`
	Glow           bool   `json:"glow"`
	NoCollide      bool   `json:"no_collide"`
	SkipQuadtree   bool   `json:"skip_quadtree"`
	LayerThreshold uint32 `json:"layer_threshold"`
}

// SaveKeyOpts are the serialization options layered on top of a brick
// list when encoding a save file.
type SaveKeyOpts struct {
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
}

// Keyer generates cache keys for the artifact kinds.
type Keyer interface {
	// BrickKey generates a key for a generated brick list.
	BrickKey(inputHash string, opts BrickKeyOpts) string

	// SaveKey generates a key for an encoded save file.
	SaveKey(inputHash string, opts SaveKeyOpts) string
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// BrickKey generates a key for a generated brick list.
func (k *DefaultKeyer) BrickKey(inputHash string, opts BrickKeyOpts) string {
	return hashKey("bricks", inputHash, opts)
}

// SaveKey generates a key for an encoded save file.
func (k *DefaultKeyer) SaveKey(inputHash string, opts SaveKeyOpts) string {
	return hashKey("save", inputHash, opts)
}
