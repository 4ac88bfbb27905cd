// Package pkg provides the core libraries for brickmap heightmap conversion.
//
// # Overview
//
// Brickmap turns 2D elevation and color fields into the minimal set of
// axis-aligned bricks and writes them as a save file. The pkg directory
// is organized into four main areas:
//
//  1. [heightmap] - Input decoding (PNG images, procedural noise)
//  2. [mosaic] - The merge engine (quadtree + run compression, emission)
//  3. [brs] - Save file model and bit-packed binary writer
//  4. [pipeline] - Orchestration (decode → generate → encode) with caching
//
// # Architecture
//
// The typical data flow through brickmap:
//
//	Heightmap/Colormap images (or Perlin noise)
//	         ↓
//	    [heightmap] package (decode elevation + color samples)
//	         ↓
//	    [mosaic] package (tile grid, quadtree merge, run merge)
//	         ↓
//	    [brs] package (bit-packed save encoding)
//	         ↓
//	    .brs output
//
// # Quick Start
//
// Convert a heightmap image into a save file:
//
//	import (
//	    "bytes"
//	    "github.com/brickforge/brickmap/pkg/brs"
//	    "github.com/brickforge/brickmap/pkg/heightmap"
//	    "github.com/brickforge/brickmap/pkg/mosaic"
//	)
//
//	// 1. Decode inputs
//	hm, _ := heightmap.NewPNGHeightmap([]string{"terrain.png"}, false)
//	cm, _ := heightmap.NewPNGColormap("colors.png", false)
//
//	// 2. Run the merge engine
//	bricks, _ := mosaic.Generate(hm, cm, mosaic.Options{Size: 2, Cull: true}, nil)
//
//	// 3. Encode the save file
//	var buf bytes.Buffer
//	_ = brs.Write(&buf, brs.NewSaveData(bricks, brs.DefaultOwnerID, "Generator"))
//
// # Main Packages
//
// [heightmap] - Sample sources: multi-image PNG heightmaps (summed per
// cell, with an optional 32-bit high-detail mode), sRGB-aware colormaps,
// Perlin noise terrain, and flat sheets for image mode.
//
// [mosaic] - The compression engine. Builds a column-major tile grid,
// merges uniform power-of-two squares, extends runs along rows and
// columns up to the size limit, optionally splits terrain into stacked
// layers, and emits bricks with vertical stacking for tall columns.
//
// [brs] - The save format: zlib-compressed sections and bit-packed
// brick records.
//
// [pipeline] - The complete conversion pipeline used by both CLI and
// API, with content-addressed caching of brick lists and save files.
//
// [cache] - Cache backends (file, Redis, null) and key derivation.
//
// [observability] - Hook interfaces for instrumenting conversions,
// cache traffic, and the HTTP API without hard backend dependencies.
//
// [errors] - Coded errors shared across packages, plus input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/mosaic/...   # Specific package
//
// [heightmap]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/heightmap
// [mosaic]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/mosaic
// [brs]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/brs
// [pipeline]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/brickforge/brickmap/pkg/errors
package pkg
