package texture

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// NewCheckerboard creates a procedural checkerboard pattern image
func NewCheckerboard(width, height, checkSize int, color1, color2 core.Vec3) *Image {
	img := newBlankImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alternate colors based on check position
			if (x/checkSize+y/checkSize)%2 == 0 {
				img.set(x, y, color1)
			} else {
				img.set(x, y, color2)
			}
		}
	}

	return img
}

// NewFlatNormalMap creates a normal map that leaves the shading normal unchanged
func NewFlatNormalMap(width, height int) *Image {
	img := newBlankImage(width, height)
	flat := core.NewVec3(0.5, 0.5, 1.0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.set(x, y, flat)
		}
	}

	return img
}

func newBlankImage(width, height int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: 3,
		Pixels:   make([]uint8, width*height*3),
	}
}

func (t *Image) set(x, y int, c core.Vec3) {
	c = c.Clamp(0, 1)
	i := (y*t.Width + x) * t.Channels
	t.Pixels[i+0] = uint8(255.99 * c.X)
	t.Pixels[i+1] = uint8(255.99 * c.Y)
	t.Pixels[i+2] = uint8(255.99 * c.Z)
}
