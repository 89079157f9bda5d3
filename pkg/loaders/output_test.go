package loaders

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"out.png", FormatPNG, false},
		{"OUT.PNG", FormatPNG, false},
		{"out.jpg", FormatJPEG, false},
		{"out.jpeg", FormatJPEG, false},
		{"dir/out.bmp", FormatBMP, false},
		{"out.tif", FormatTIFF, false},
		{"out.tiff", FormatTIFF, false},
		{"out.gif", "", true},
		{"out", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// Lossless formats read back with the exact pixels
func TestWriteImage_Lossless(t *testing.T) {
	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteImage(path, newQuadImage()); err != nil {
				t.Fatalf("WriteImage failed: %v", err)
			}

			tex, err := LoadImageTexture(path)
			if err != nil {
				t.Fatalf("LoadImageTexture failed: %v", err)
			}
			if tex.Width != 2 || tex.Height != 2 {
				t.Fatalf("Expected 2x2 image, got %dx%d", tex.Width, tex.Height)
			}
			checkColor(t, "top-right", tex.Color(1, 0), core.NewVec3(1, 0, 0))
			checkColor(t, "bottom-left", tex.Color(0, 1), core.NewVec3(0, 1, 0))
		})
	}
}

func TestWriteImage_JPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := WriteImage(path, newQuadImage()); err != nil {
		t.Fatalf("WriteImage failed: %v", err)
	}
	tex, err := LoadImageTexture(path)
	if err != nil {
		t.Fatalf("LoadImageTexture failed: %v", err)
	}
	if tex.Width != 2 || tex.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", tex.Width, tex.Height)
	}
}

func TestWriteImage_Unsupported(t *testing.T) {
	err := WriteImage(filepath.Join(t.TempDir(), "out.gif"), newQuadImage())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEncodeImage_PNGSignature(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, FormatPNG, newQuadImage()); err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("Expected PNG signature")
	}
}
