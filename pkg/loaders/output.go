package loaders

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for output extensions with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatForPath picks the encoding from the file extension
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}

// EncodeImage writes img to w in the given format
func EncodeImage(w io.Writer, format Format, img image.Image) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
}

// WriteImage saves img to path, choosing the encoding from the extension
func WriteImage(path string, img image.Image) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	if format == FormatPNG {
		if err := gg.SavePNG(path, img); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := EncodeImage(file, format, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}
