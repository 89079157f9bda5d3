package texture

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

const tolerance = 1e-9

func colorNear(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestSolid_Color(t *testing.T) {
	c := core.NewVec3(0.2, 0.4, 0.6)
	solid := NewSolid(c)

	for _, uv := range [][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}} {
		if got := solid.Color(uv[0], uv[1]); got != c {
			t.Errorf("Color(%v): expected %v, got %v", uv, c, got)
		}
	}
}

func TestLinearGradient_Color(t *testing.T) {
	gradient := NewLinearGradient(core.NewVec3(0, 0, 0), core.NewVec3(1, 0.5, 0))

	tests := []struct {
		u        float64
		expected core.Vec3
	}{
		{0, core.NewVec3(0, 0, 0)},
		{0.5, core.NewVec3(0.5, 0.25, 0)},
		{1, core.NewVec3(1, 0.5, 0)},
	}

	for _, tt := range tests {
		// V has no effect on a linear gradient
		if got := gradient.Color(tt.u, 0.9); !colorNear(got, tt.expected, tolerance) {
			t.Errorf("Color(u=%f): expected %v, got %v", tt.u, tt.expected, got)
		}
	}
}

func newTestImage(t *testing.T) *Image {
	t.Helper()
	// 2x2 RGB: red, green / blue, white
	pixels := []uint8{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	}
	img, err := NewImage(2, 2, 3, pixels)
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}
	return img
}

func TestImage_ColorNearestSampling(t *testing.T) {
	img := newTestImage(t)

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{"top left", 0, 0, core.NewVec3(1, 0, 0)},
		{"top right", 1, 0, core.NewVec3(0, 1, 0)},
		{"bottom left", 0, 1, core.NewVec3(0, 0, 1)},
		{"bottom right", 1, 1, core.NewVec3(1, 1, 1)},
		{"interior floors to top left", 0.9, 0.9, core.NewVec3(1, 0, 0)},
		{"out of range clamps", 7, -3, core.NewVec3(0, 1, 0)},
		{"NaN clamps to origin", math.NaN(), math.NaN(), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.Color(tt.u, tt.v); !colorNear(got, tt.expected, tolerance) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestImage_AlphaIgnored(t *testing.T) {
	img, err := NewImage(1, 1, 4, []uint8{51, 102, 153, 0})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	expected := core.NewVec3(0.2, 0.4, 0.6)
	if got := img.Color(0.5, 0.5); !colorNear(got, expected, 1e-6) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestNewImage_Rejects(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, channels int
		pixels                  []uint8
	}{
		{"zero width", 0, 1, 3, nil},
		{"two channels", 1, 1, 2, []uint8{0, 0}},
		{"short buffer", 2, 2, 3, make([]uint8, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewImage(tt.width, tt.height, tt.channels, tt.pixels); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestFromImage(t *testing.T) {
	t.Run("opaque image stores three channels", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 2, 1))
		src.Set(0, 0, color.RGBA{R: 255, A: 255})
		src.Set(1, 0, color.RGBA{B: 255, A: 255})

		img, err := FromImage(src, "opaque.png")
		if err != nil {
			t.Fatalf("FromImage failed: %v", err)
		}
		if img.Channels != 3 {
			t.Fatalf("Expected 3 channels, got %d", img.Channels)
		}
		if img.Path != "opaque.png" {
			t.Errorf("Expected path to be kept, got %q", img.Path)
		}
		if got := img.Color(1, 0); !colorNear(got, core.NewVec3(0, 0, 1), tolerance) {
			t.Errorf("Expected blue, got %v", got)
		}
	})

	t.Run("translucent image stores four channels", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		src.Set(0, 0, color.NRGBA{G: 255, A: 10})

		img, err := FromImage(src, "")
		if err != nil {
			t.Fatalf("FromImage failed: %v", err)
		}
		if img.Channels != 4 {
			t.Fatalf("Expected 4 channels, got %d", img.Channels)
		}
		if got := img.Color(0, 0); !colorNear(got, core.NewVec3(0, 1, 0), tolerance) {
			t.Errorf("Expected green, got %v", got)
		}
	})
}

func TestFromImage_RejectsEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
	}{
		{"zero by zero", image.NewRGBA(image.Rect(0, 0, 0, 0))},
		{"zero width", image.NewRGBA(image.Rect(0, 0, 0, 4))},
		{"zero height", image.NewNRGBA(image.Rect(2, 2, 6, 2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if img, err := FromImage(tt.src, "empty.png"); err == nil {
				t.Errorf("Expected error, got %dx%d image", img.Width, img.Height)
			}
		})
	}
}

func TestDecodeNormal(t *testing.T) {
	frame := core.NewTBN(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name     string
		color    core.Vec3
		expected core.Vec3
	}{
		// The flat normal-map color (0.5, 0.5, 1) is the geometric normal
		{"flat", core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 1, 0)},
		{"full tangent", core.NewVec3(1, 0.5, 0.5), core.NewVec3(1, 0, 0)},
		{"tilted", core.NewVec3(1, 0.5, 1), core.NewVec3(1, 1, 0).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeNormal(tt.color, frame)
			if !colorNear(got, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestImage_Normal(t *testing.T) {
	// 128,128,255 is the conventional flat normal
	img, err := NewImage(1, 1, 3, []uint8{128, 128, 255})
	if err != nil {
		t.Fatalf("NewImage failed: %v", err)
	}

	frame := core.NewTBN(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))
	got := img.Normal(0.3, 0.7, frame)
	if got.Subtract(frame.N).Length() > 0.01 {
		t.Errorf("Expected approximately %v, got %v", frame.N, got)
	}
	if math.Abs(got.Length()-1) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", got.Length())
	}
}

func TestNewCheckerboard(t *testing.T) {
	black := core.NewVec3(0, 0, 0)
	white := core.NewVec3(1, 1, 1)
	img := NewCheckerboard(4, 4, 2, white, black)

	tests := []struct {
		name     string
		u, v     float64
		expected core.Vec3
	}{
		{"top left check", 0, 0, white},
		{"top right check", 1, 0, black},
		{"bottom left check", 0, 1, black},
		{"bottom right check", 1, 1, white},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.Color(tt.u, tt.v); !colorNear(got, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewFlatNormalMap(t *testing.T) {
	img := NewFlatNormalMap(2, 2)
	frame := core.NewTBN(core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))

	got := img.Normal(0.5, 0.5, frame)
	if got.Subtract(frame.N).Length() > 0.01 {
		t.Errorf("Expected approximately %v, got %v", frame.N, got)
	}
}
