package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/brickforge/brickmap/pkg/cache"
	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/heightmap"
	"github.com/brickforge/brickmap/pkg/observability"
)

// Sources bundles the decoded elevation and color providers for one
// conversion run.
type Sources struct {
	Heightmap heightmap.Heightmap
	Colormap  heightmap.Colormap
}

// Decode constructs the sample sources configured in opts.
func Decode(ctx context.Context, opts Options) (*Sources, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	source := opts.Colormap
	if opts.Procedural {
		source = fmt.Sprintf("perlin(seed=%d)", opts.Seed)
	}
	start := time.Now()
	observability.Convert().OnDecodeStart(ctx, source)

	srcs, err := decode(opts)
	var w, h uint32
	if err == nil {
		w, h = srcs.Heightmap.Size()
	}
	observability.Convert().OnDecodeComplete(ctx, source, w, h, time.Since(start), err)
	return srcs, err
}

func decode(opts Options) (*Sources, error) {
	if opts.Procedural {
		hm := heightmap.NewPerlin(opts.Width, opts.Height, DefaultProceduralMax, opts.Seed)
		return &Sources{
			Heightmap: hm,
			Colormap:  heightmap.NewGradient(hm, DefaultProceduralMax),
		}, nil
	}

	cm, err := heightmap.NewPNGColormap(opts.Colormap, opts.LRGB)
	if err != nil {
		return nil, err
	}

	// Image mode flattens the terrain to a single sheet sized like the
	// colormap.
	if opts.Engine.Img {
		w, h := cm.Size()
		return &Sources{Heightmap: heightmap.NewFlat(w, h), Colormap: cm}, nil
	}

	hm, err := heightmap.NewPNGHeightmap(opts.Heightmaps, opts.HDMap)
	if err != nil {
		return nil, err
	}
	return &Sources{Heightmap: hm, Colormap: cm}, nil
}

// InputHash content-addresses the conversion inputs: every input file's
// bytes plus the decode options. Two runs with the same hash decode to
// identical sample sources.
func InputHash(opts Options) (string, error) {
	meta, err := json.Marshal(struct {
		HDMap      bool   `json:"hdmap"`
		LRGB       bool   `json:"lrgb"`
		Img        bool   `json:"img"`
		Procedural bool   `json:"procedural"`
		Seed       int64  `json:"seed"`
		Width      uint32 `json:"width"`
		Height     uint32 `json:"height"`
	}{opts.HDMap, opts.LRGB, opts.Engine.Img, opts.Procedural, opts.Seed, opts.Width, opts.Height})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "failed to hash input options")
	}

	sum := meta
	if !opts.Procedural {
		paths := append([]string{opts.Colormap}, opts.Heightmaps...)
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "could not read %s", path)
				}
				return "", errors.Wrap(errors.ErrCodeDecode, err, "could not read %s", path)
			}
			sum = append(sum, cache.Hash(data)...)
		}
	}
	return cache.Hash(sum), nil
}
