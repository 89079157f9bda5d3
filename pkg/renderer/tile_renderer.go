package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scn *scene.Scene, integratorInst integrator.Integrator, config Config) *TileRenderer {
	return &TileRenderer{
		scene:      scn,
		integrator: integratorInst,
		config:     config,
	}
}

// RenderTile writes the tile's quantized pixels into the row-major RGB buffer.
// Tiles never overlap, so concurrent calls write disjoint bytes.
func (tr *TileRenderer) RenderTile(tile *Tile, pixels []byte) RenderStats {
	sampler := core.NewRandomSampler(tile.Random)
	bounds := tile.Bounds

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			color := integrator.EstimatePixel(tr.integrator, tr.scene, i, j,
				tr.config.Width, tr.config.Height, tr.config.SamplesPerPixel, sampler)

			offset := (j*tr.config.Width + i) * 3
			r, g, b := Quantize(color, tr.config.ToneMapper)
			pixels[offset+0] = r
			pixels[offset+1] = g
			pixels[offset+2] = b
		}
	}

	pixelCount := bounds.Dx() * bounds.Dy()
	return RenderStats{
		TotalPixels:  pixelCount,
		TotalSamples: pixelCount * tr.config.SamplesPerPixel,
		Tiles:        1,
	}
}

// Quantize gamma corrects (gamma 2), tone maps and converts an averaged color to 8 bits per channel
func Quantize(color core.Vec3, toneMapper ToneMapper) (uint8, uint8, uint8) {
	mapped := toneMapper.Map(color.Sqrt())
	return toByte(mapped.X), toByte(mapped.Y), toByte(mapped.Z)
}

func toByte(c float64) uint8 {
	// NaN and negatives map to 0
	if !(c > 0) {
		return 0
	}
	if c > 1 {
		c = 1
	}
	return uint8(255.99 * c)
}
