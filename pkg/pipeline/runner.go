package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/brickforge/brickmap/pkg/brs"
	"github.com/brickforge/brickmap/pkg/cache"
	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/mosaic"
	"github.com/brickforge/brickmap/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete decode → generate → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	hash, err := InputHash(opts)
	if err != nil {
		return nil, err
	}
	result.InputHash = hash

	// A cached save file short-circuits the whole pipeline: the inputs
	// never get decoded.
	saveKey := r.Keyer.SaveKey(hash, opts.SaveKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, saveKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "save")
			result.Save = data
			result.CacheInfo.SaveHit = true
			r.Logger.Info("save file from cache", "bytes", len(data))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "save")
	}

	// Stage 1: Decode
	decodeStart := time.Now()
	srcs, err := Decode(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Width, result.Stats.Height = srcs.Heightmap.Size()

	r.Logger.Info("decoded inputs",
		"width", result.Stats.Width,
		"height", result.Stats.Height,
		"duration", result.Stats.DecodeTime)

	// Stage 2: Generate
	generateStart := time.Now()
	bricks, brickHit, err := r.GenerateBricksWithCacheInfo(ctx, srcs, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Bricks = bricks
	result.Stats.GenerateTime = time.Since(generateStart)
	result.Stats.BrickCount = len(bricks)
	result.CacheInfo.BrickHit = brickHit

	r.Logger.Info("generated bricks",
		"count", len(bricks),
		"cached", brickHit,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Encode
	encodeStart := time.Now()
	save, err := r.Encode(ctx, bricks, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Save = save
	result.Stats.EncodeTime = time.Since(encodeStart)

	r.Logger.Info("encoded save file",
		"bytes", len(save),
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// GenerateBricksWithCacheInfo runs the merge engine with caching and
// returns cache hit info. The brick list is cached independently of the
// save file so a change of owner identity only re-runs the encoder.
func (r *Runner) GenerateBricksWithCacheInfo(ctx context.Context, srcs *Sources, inputHash string, opts Options) ([]brs.Brick, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.BrickKey(inputHash, opts.BrickKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var bricks []brs.Brick
			if err := json.Unmarshal(data, &bricks); err == nil {
				observability.Cache().OnCacheHit(ctx, "bricks")
				return bricks, true, nil
			}
			// Corrupt entry, fall through to regenerate.
		}
		observability.Cache().OnCacheMiss(ctx, "bricks")
	}

	w, h := srcs.Heightmap.Size()
	start := time.Now()
	observability.Convert().OnGenerateStart(ctx, int(w)*int(h))

	// The engine only sees the progress callback, so context
	// cancellation is folded into it.
	progress := func(fraction float64) bool {
		if ctx.Err() != nil {
			return false
		}
		if opts.Progress != nil {
			return opts.Progress(fraction)
		}
		return true
	}

	bricks, err := mosaic.Generate(srcs.Heightmap, srcs.Colormap, opts.Engine, progress)
	observability.Convert().OnGenerateComplete(ctx, len(bricks), time.Since(start), err)
	if err != nil {
		if errors.Is(err, errors.ErrCodeCancelled) && ctx.Err() != nil {
			return nil, false, errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "generation cancelled")
		}
		return nil, false, err
	}

	if data, err := json.Marshal(bricks); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLBricks) == nil {
			observability.Cache().OnCacheSet(ctx, "bricks", len(data))
		}
	}

	return bricks, false, nil
}

// GenerateBricks is a convenience wrapper that calls
// GenerateBricksWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateBricks(ctx context.Context, srcs *Sources, inputHash string, opts Options) ([]brs.Brick, error) {
	bricks, _, err := r.GenerateBricksWithCacheInfo(ctx, srcs, inputHash, opts)
	return bricks, err
}

// Encode serializes bricks into a save file and caches the result.
func (r *Runner) Encode(ctx context.Context, bricks []brs.Brick, inputHash string, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Convert().OnEncodeStart(ctx, len(bricks))

	ownerID, ownerName := opts.Owner()
	data := brs.NewSaveData(bricks, ownerID, ownerName)

	var buf bytes.Buffer
	err := brs.Write(&buf, data)
	observability.Convert().OnEncodeComplete(ctx, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	saveKey := r.Keyer.SaveKey(inputHash, opts.SaveKeyOpts())
	if r.Cache.Set(ctx, saveKey, buf.Bytes(), cache.TTLSave) == nil {
		observability.Cache().OnCacheSet(ctx, "save", buf.Len())
	}

	return buf.Bytes(), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Engine.Logger == nil {
		opts.Engine.Logger = r.Logger
	}
}
