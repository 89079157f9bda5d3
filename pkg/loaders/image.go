package loaders

import (
	"fmt"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/fogleman/gg"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-pathtracer/pkg/texture"
)

// LoadImageTexture decodes a PNG, JPEG, BMP, TIFF or WebP file into an image texture
func LoadImageTexture(path string) (*texture.Image, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	tex, err := texture.FromImage(img, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return tex, nil
}
