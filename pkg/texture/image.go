package texture

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Image provides color from a decoded 8-bit raster
type Image struct {
	Path     string  // Source file, kept so scenes can be written back out
	Width    int     // Width in pixels
	Height   int     // Height in pixels
	Channels int     // 3 (RGB) or 4 (RGBA); alpha is ignored when sampling
	Pixels   []uint8 // Row-major, top row first
}

// NewImage wraps an already decoded pixel buffer
func NewImage(width, height, channels int, pixels []uint8) (*Image, error) {
	img := &Image{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pixels:   pixels,
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate checks that the size and channel count match the pixel buffer
func (t *Image) Validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", t.Width, t.Height)
	}
	if t.Channels != 3 && t.Channels != 4 {
		return fmt.Errorf("unsupported channel count %d", t.Channels)
	}
	if len(t.Pixels) != t.Width*t.Height*t.Channels {
		return fmt.Errorf("pixel buffer has %d bytes, expected %d", len(t.Pixels), t.Width*t.Height*t.Channels)
	}
	return nil
}

// FromImage converts any decoded image into an 8-bit texture.
// Opaque images are stored with 3 channels, everything else with 4.
func FromImage(img image.Image, path string) (*Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	channels := 4
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		channels = 3
	}

	pixels := make([]uint8, 0, width*height*channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, c.R, c.G, c.B)
			if channels == 4 {
				pixels = append(pixels, c.A)
			}
		}
	}

	return &Image{
		Path:     path,
		Width:    width,
		Height:   height,
		Channels: channels,
		Pixels:   pixels,
	}, nil
}

// Color nearest-samples the pixel at (floor(u*(w-1)), floor(v*(h-1))).
// UV outside [0,1], including NaN, is clamped to the border.
func (t *Image) Color(u, v float64) core.Vec3 {
	x := int(clampUnit(u) * float64(t.Width-1))
	y := int(clampUnit(v) * float64(t.Height-1))

	i := (y*t.Width + x) * t.Channels
	return core.NewVec3(
		float64(t.Pixels[i+0])/255.0,
		float64(t.Pixels[i+1])/255.0,
		float64(t.Pixels[i+2])/255.0,
	)
}

// Normal decodes the sampled color as a tangent-space normal and
// transforms it into scene space with frame
func (t *Image) Normal(u, v float64, frame core.TBN) core.Vec3 {
	return DecodeNormal(t.Color(u, v), frame)
}

func (*Image) isTexture() {}

func clampUnit(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
