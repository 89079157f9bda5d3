package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/web/server"
)

const defaultOutput = "scene.png"

// renderOptions collects the flags shared by the rendering commands
type renderOptions struct {
	config renderer.Config
	output string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pathtracer",
		Short: "Offline Monte-Carlo path tracer",
		Long:  "Render JSON scene documents or the built-in scenes to PNG, JPEG, BMP or TIFF images.",
		// fang prints errors itself
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newRandomCmd(), newGenerateCmd(), newServeCmd())
	return root
}

// addRenderFlags registers the renderer configuration flags on flags
func addRenderFlags(flags *pflag.FlagSet, opts *renderOptions) {
	defaults := renderer.DefaultConfig()
	opts.config = defaults

	flags.IntVar(&opts.config.Width, "width", defaults.Width, "image width in pixels")
	flags.IntVar(&opts.config.Height, "height", defaults.Height, "image height in pixels")
	flags.IntVar(&opts.config.SamplesPerPixel, "samples", defaults.SamplesPerPixel, "samples per pixel")
	flags.IntVar(&opts.config.MaxReflections, "max-reflections", defaults.MaxReflections, "maximum bounces per path")
	flags.Var(&opts.config.ToneMapper, "tone-mapper", "tone mapping curve: clamp or uncharted")
	flags.IntVar(&opts.config.Workers, "workers", defaultWorkers(), "parallel tile workers")
	flags.IntVar(&opts.config.TileSize, "tile-size", defaults.TileSize, "edge length of a render tile")
	flags.Int64Var(&opts.config.Seed, "seed", defaults.Seed, "random seed")
	flags.StringVarP(&opts.output, "output", "o", defaultOutput, "output image; the extension picks the format")
}

func newRenderCmd() *cobra.Command {
	var (
		opts      renderOptions
		sceneName string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene document or built-in scene",
		Example: `  pathtracer render --scene scenes/spheres.json --output spheres.png
  pathtracer render --scene default --samples 500 --tone-mapper uncharted`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newTermLogger(cmd.ErrOrStderr())
			scn, err := loadScene(sceneName, opts.config)
			if err != nil {
				return err
			}
			return renderToFile(cmd.Context(), scn, opts, logger, cmd.ErrOrStderr())
		},
	}

	addRenderFlags(cmd.Flags(), &opts)
	cmd.Flags().StringVar(&sceneName, "scene", "", "scene document path or built-in scene ID")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}

func newRandomCmd() *cobra.Command {
	var (
		opts   renderOptions
		aspect float64
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Generate the random balls scene and render it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newTermLogger(cmd.ErrOrStderr())
			if aspect != 0 {
				if !(aspect > 0) {
					return fmt.Errorf("aspect %v must be positive", aspect)
				}
				opts.config.Height = max(1, int(math.Round(float64(opts.config.Width)/aspect)))
			}

			logger.Printf("%d is the scene generation seed\n", opts.config.Seed)
			scn := scene.NewRandomBallsScene(opts.config.Seed, opts.config.AspectRatio())
			return renderToFile(cmd.Context(), scn, opts, logger, cmd.ErrOrStderr())
		},
	}

	addRenderFlags(cmd.Flags(), &opts)
	cmd.Flags().Float64Var(&aspect, "aspect", 0, "camera aspect ratio; sets height from width (default width/height)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		seed   int64
		aspect float64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the random balls scene as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(aspect > 0) {
				return fmt.Errorf("aspect %v must be positive", aspect)
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d is the scene generation seed\n", seed)
			return loaders.EncodeScene(cmd.OutOrStdout(), scene.NewRandomBallsScene(seed, aspect))
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "scene generation seed (default: time based)")
	cmd.Flags().Float64Var(&aspect, "aspect", 2.0, "camera aspect ratio")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		port      int
		scenesDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newTermLogger(cmd.ErrOrStderr())
			logHostInfo(logger)
			return server.NewServer(port, scenesDir, logger).Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to serve on")
	cmd.Flags().StringVar(&scenesDir, "scenes", "scenes", "directory of scene documents")
	return cmd
}

// loadScene resolves a built-in scene ID or loads a scene document
func loadScene(name string, config renderer.Config) (*scene.Scene, error) {
	scn, err := scene.NewBuiltinScene(name, config.Seed, config.AspectRatio())
	if err == nil {
		return scn, nil
	}
	if !errors.Is(err, scene.ErrUnknownScene) {
		return nil, err
	}
	return loaders.LoadScene(name)
}

// renderToFile renders scn with a live progress bar and writes the image to opts.output
func renderToFile(ctx context.Context, scn *scene.Scene, opts renderOptions, logger core.Logger, progressOut io.Writer) error {
	if _, err := loaders.FormatForPath(opts.output); err != nil {
		return err
	}
	logHostInfo(logger)

	config := opts.config
	if camera := scn.Camera.Config(); math.Abs(camera.AspectRatio-config.AspectRatio()) > 1e-3 {
		logger.Printf("Warning: camera aspect %.3f differs from canvas aspect %.3f\n",
			camera.AspectRatio, config.AspectRatio())
	}
	bounds := scn.Bounds()
	logger.Printf("Scene has %d items within %v .. %v\n", len(scn.Items), bounds.Min, bounds.Max)

	updates := make(chan renderer.Progress, 16)
	bar := newProgressBar(progressOut, progressBarWidth)
	done := make(chan struct{})
	go func() {
		defer close(done)
		bar.Run(updates)
	}()

	start := time.Now()
	pixels, err := renderer.Render(ctx, scn, config, renderer.Options{Logger: bar.Logger(logger), Progress: updates})
	close(updates)
	<-done
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := loaders.WriteImage(opts.output, renderer.ToImage(pixels, config.Width, config.Height)); err != nil {
		return err
	}

	logger.Printf("Render saved as %s after %v\n", opts.output, time.Since(start).Round(time.Millisecond))
	return nil
}
