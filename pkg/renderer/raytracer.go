package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Progress is sent after each completed tile
type Progress struct {
	TilesDone  int
	TilesTotal int
}

// Options carries optional collaborators for Render
type Options struct {
	Logger     core.Logger           // Defaults to core.NopLogger
	Progress   chan<- Progress       // Best-effort; updates are dropped when the reader lags
	Integrator integrator.Integrator // Defaults to path tracing with cfg.MaxReflections
}

// Render traces scn and returns width*height RGB triples, top row first.
// ctx is checked between tiles; a cancelled render returns ctx.Err().
// Progress is never closed by Render.
func Render(ctx context.Context, scn *scene.Scene, cfg Config, opts Options) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := scn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	integratorInst := opts.Integrator
	if integratorInst == nil {
		integratorInst = integrator.NewPathTracingIntegrator(cfg.MaxReflections)
	}

	start := time.Now()
	pixels := make([]byte, cfg.Width*cfg.Height*3)
	tiles := NewTileGrid(cfg.Width, cfg.Height, cfg.TileSize, cfg.Seed)
	tileStats := make([]RenderStats, len(tiles))
	tileRenderer := NewTileRenderer(scn, integratorInst, cfg)
	workers := cfg.numWorkers()

	logger.Printf("Rendering %dx%d, %d samples/pixel, %d tiles on %d workers\n",
		cfg.Width, cfg.Height, cfg.SamplesPerPixel, len(tiles), workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var completed atomic.Int64
	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tileStats[tile.ID] = tileRenderer.RenderTile(tile, pixels)

			done := int(completed.Add(1))
			if opts.Progress != nil {
				select {
				case opts.Progress <- Progress{TilesDone: done, TilesTotal: len(tiles)}:
				default:
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Printf("Render stopped after %d of %d tiles: %v\n", completed.Load(), len(tiles), err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		logger.Printf("Render cancelled after %d of %d tiles\n", completed.Load(), len(tiles))
		return nil, err
	}

	var stats RenderStats
	for _, s := range tileStats {
		stats.Add(s)
	}
	stats.Duration = time.Since(start)
	logger.Printf("Render completed in %v (%d pixels, %.0f samples/pixel)\n",
		stats.Duration.Round(time.Millisecond), stats.TotalPixels, stats.AverageSamples())

	return pixels, nil
}

// ToImage wraps a row-major RGB buffer as an opaque RGBA image for encoders
func ToImage(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.SetRGBA(x, y, color.RGBA{R: pixels[i], G: pixels[i+1], B: pixels[i+2], A: 255})
		}
	}
	return img
}
