package renderer

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure
var ErrInvalidConfig = errors.New("invalid render config")

// Config contains rendering configuration
type Config struct {
	Width           int        // Image width in pixels
	Height          int        // Image height in pixels
	SamplesPerPixel int        // Number of rays per pixel
	MaxReflections  int        // Maximum ray bounce depth
	ToneMapper      ToneMapper // Curve applied after gamma correction
	Workers         int        // Parallel tile workers (0 = use CPU count)
	TileSize        int        // Edge length of each square tile
	Seed            int64      // Base seed; each tile derives its own stream
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxReflections:  50,
		ToneMapper:      ToneMapClamp,
		Workers:         0,
		TileSize:        32,
		Seed:            42,
	}
}

// Validate checks that the configuration can be rendered
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d must be positive", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxReflections < 0:
		return fmt.Errorf("%w: max reflections %d must not be negative", ErrInvalidConfig, c.MaxReflections)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalidConfig, c.Workers)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d must be positive", ErrInvalidConfig, c.TileSize)
	}
	if _, ok := toneMapperNames[c.ToneMapper]; !ok {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.ToneMapper)
	}
	return nil
}

// AspectRatio returns width / height
func (c Config) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

func (c Config) numWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
