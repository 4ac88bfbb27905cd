package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/mosaic"
	"github.com/brickforge/brickmap/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
// These options control input decoding, the merge engine, and output.
type convertOpts struct {
	colormap string // color image path (defaults to the first heightmap)
	output   string // output save file path
	hdmap    bool   // inputs encode 32-bit elevations across RGBA
	lrgb     bool   // colormap is already linear, skip sRGB conversion

	size       uint32 // brick footprint multiplier in studs
	vertical   uint32 // vertical scale multiplier
	style      string // brick style: plain, tile, micro, stud
	tile       bool   // shortcut for --style tile
	micro      bool   // shortcut for --style micro
	stud       bool   // shortcut for --style stud
	cull       bool   // drop hidden and transparent bricks
	snap       bool   // snap brick tops to the build grid
	img        bool   // flat image mode (uniform thickness)
	glow       bool   // use glowing material
	nocollide  bool   // disable player collision
	noQuadtree bool   // skip the quadtree merge pass
	layerAbove uint32 // split terrain into layers above this elevation

	perlin bool   // generate procedural terrain instead of reading images
	seed   int64  // procedural noise seed
	width  uint32 // procedural terrain width
	height uint32 // procedural terrain height

	owner   string // brick owner display name
	ownerID string // brick owner UUID
	noCache bool   // disable artifact caching
	refresh bool   // recompute even when cached
	plain   bool   // disable the interactive progress bar
}

// convertCommand creates the convert command, the main entry point of
// the CLI.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{size: 1, vertical: 1, style: mosaic.StylePlain}

	cmd := &cobra.Command{
		Use:   "convert [heightmap...]",
		Short: "Convert heightmap images into a brick save file",
		Long: `Convert one or more heightmap images into a brick save file.

Multiple heightmaps are summed per cell, which allows elevation detail
beyond a single 8-bit channel. Colors come from a separate colormap
image, or from the first heightmap when none is given.

Examples:
  brickmap convert terrain.png
  brickmap convert terrain.png --colormap colors.png --size 2 --cull
  brickmap convert base.png detail.png -o world.brs --stud
  brickmap convert --perlin --seed 7 -o noise.brs`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.perlin {
				return fmt.Errorf("provide at least one heightmap image or --perlin")
			}
			switch {
			case opts.tile:
				opts.style = mosaic.StyleTile
			case opts.micro:
				opts.style = mosaic.StyleMicro
			case opts.stud:
				opts.style = mosaic.StyleStud
			}
			return c.runConvert(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.colormap, "colormap", "c", "", "color image (defaults to the first heightmap)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (defaults to the input name with .brs)")
	cmd.Flags().BoolVar(&opts.hdmap, "hdmap", false, "decode 32-bit elevations from all RGBA channels")
	cmd.Flags().BoolVar(&opts.lrgb, "lrgb", false, "treat colormap values as linear RGB")

	cmd.Flags().Uint32VarP(&opts.size, "size", "s", opts.size, "brick footprint multiplier in studs")
	cmd.Flags().Uint32Var(&opts.vertical, "vertical", opts.vertical, "vertical scale multiplier")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "brick style: plain, tile, micro, stud")
	cmd.Flags().BoolVar(&opts.tile, "tile", false, "shortcut for --style tile")
	cmd.Flags().BoolVar(&opts.micro, "micro", false, "shortcut for --style micro")
	cmd.Flags().BoolVar(&opts.stud, "stud", false, "shortcut for --style stud")
	cmd.MarkFlagsMutuallyExclusive("style", "tile", "micro", "stud")
	cmd.Flags().BoolVar(&opts.cull, "cull", false, "drop transparent and ground-level bricks")
	cmd.Flags().BoolVar(&opts.snap, "snap", false, "snap brick tops to the build grid")
	cmd.Flags().BoolVar(&opts.img, "img", false, "flat image mode: uniform thickness, colors only")
	cmd.Flags().BoolVar(&opts.glow, "glow", false, "use glowing material")
	cmd.Flags().BoolVar(&opts.nocollide, "nocollide", false, "disable player collision")
	cmd.Flags().BoolVar(&opts.noQuadtree, "no-quadtree", false, "skip the quadtree merge pass")
	cmd.Flags().Uint32Var(&opts.layerAbove, "layer-above", 0, "split terrain into stacked layers above this elevation")

	cmd.Flags().BoolVar(&opts.perlin, "perlin", false, "generate procedural noise terrain")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "procedural noise seed")
	cmd.Flags().Uint32Var(&opts.width, "width", 0, "procedural terrain width")
	cmd.Flags().Uint32Var(&opts.height, "height", 0, "procedural terrain height")

	cmd.Flags().StringVar(&opts.owner, "owner", "", "brick owner display name")
	cmd.Flags().StringVar(&opts.ownerID, "owner-id", "", "brick owner UUID")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable the interactive progress bar")

	return cmd
}

// pipelineOptions builds pipeline options from flags, with config file
// values filling any flag left at its default.
func (c *CLI) pipelineOptions(heightmaps []string, opts *convertOpts) pipeline.Options {
	cfg := c.Config

	engine := mosaic.Options{
		Size:           opts.size,
		Scale:          opts.vertical,
		Style:          opts.style,
		Cull:           opts.cull || cfg.Defaults.Cull,
		Snap:           opts.snap || cfg.Defaults.Snap,
		Img:            opts.img,
		Glow:           opts.glow,
		NoCollide:      opts.nocollide,
		SkipQuadtree:   opts.noQuadtree,
		LayerThreshold: opts.layerAbove,
	}
	if opts.size == 1 && cfg.Defaults.Size > 0 {
		engine.Size = cfg.Defaults.Size
	}
	if opts.vertical == 1 && cfg.Defaults.Scale > 0 {
		engine.Scale = cfg.Defaults.Scale
	}
	if opts.style == mosaic.StylePlain && cfg.Defaults.Style != "" {
		engine.Style = cfg.Defaults.Style
	}

	ownerID := opts.ownerID
	if ownerID == "" {
		ownerID = cfg.Owner.ID
	}
	ownerName := opts.owner
	if ownerName == "" {
		ownerName = cfg.Owner.Name
	}

	return pipeline.Options{
		Heightmaps: heightmaps,
		Colormap:   opts.colormap,
		HDMap:      opts.hdmap,
		LRGB:       opts.lrgb,
		Procedural: opts.perlin,
		Seed:       opts.seed,
		Width:      opts.width,
		Height:     opts.height,
		Engine:     engine,
		OwnerID:    ownerID,
		OwnerName:  ownerName,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	}
}

// outputPath derives the save file path from the output flag or the
// first input.
func outputPath(heightmaps []string, opts *convertOpts) string {
	if opts.output != "" {
		return opts.output
	}
	if opts.perlin {
		return fmt.Sprintf("perlin-%d.brs", opts.seed)
	}
	base := strings.TrimSuffix(heightmaps[0], filepath.Ext(heightmaps[0]))
	return base + ".brs"
}

func (c *CLI) runConvert(ctx context.Context, heightmaps []string, opts *convertOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(heightmaps, opts)
	out := outputPath(heightmaps, opts)

	var result *pipeline.Result
	if opts.plain || !isTerminal(os.Stderr) {
		prog := newProgress(c.Logger)
		spin := newSpinnerWithContext(ctx, "Generating bricks...")
		spin.Start()
		result, err = runner.Execute(ctx, popts)
		spin.Stop()
		if err == nil {
			prog.done(fmt.Sprintf("Generated %d bricks", result.Stats.BrickCount))
		}
	} else {
		result, err = runWithProgress(ctx, func(progress mosaic.ProgressFunc) (*pipeline.Result, error) {
			popts.Progress = progress
			return runner.Execute(ctx, popts)
		})
	}
	if err != nil {
		if err == context.Canceled || errors.Is(err, errors.ErrCodeCancelled) || ctx.Err() != nil {
			printWarning("Cancelled")
			return context.Canceled
		}
		return err
	}

	if err := os.WriteFile(out, result.Save, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Generated save file")
	printFile(out)
	cells := int(result.Stats.Width) * int(result.Stats.Height)
	printStats(cells, result.Stats.BrickCount, result.CacheInfo.SaveHit || result.CacheInfo.BrickHit)
	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
