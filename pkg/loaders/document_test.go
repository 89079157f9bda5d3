package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/skybox"
	"github.com/df07/go-pathtracer/pkg/texture"
)

const validDocument = `{
  "camera": {"position": [0, 1, 3], "lookAt": [0, 0, 0], "up": [0, 1, 0], "vfov": 40, "aspect": 1.5},
  "skybox": {"cubemap": {"up": "sky", "down": "sky", "left": "sky", "right": "sky", "front": "sky", "back": "sky"}},
  "textures": [
    {"name": "sky", "solid": {"color": "#80b3ff"}},
    {"name": "white", "solid": {"color": [1, 1, 1]}},
    {"name": "fade", "linearGradient": {"from": [1, 0, 0], "to": [0, 0, 1]}},
    {"name": "flat", "image": {"width": 1, "height": 1, "channels": 3, "pixels": "gID/"}}
  ],
  "geometries": [
    {"name": "ball", "sphere": {"center": [0, 0, 0], "radius": 0.5}},
    {"name": "floor", "plane": {"center": [0, -0.5, 0], "u": [10, 0, 0], "v": [0, 0, -10]}}
  ],
  "materials": [
    {"name": "matte", "lambertian": {"texture": "white", "normalMap": "flat"}},
    {"name": "mirror", "metal": {"texture": "fade", "fuzz": 0.1}},
    {"name": "glass", "dielectric": {"refractiveIndex": 1.5}},
    {"name": "lamp", "light": {"texture": "white", "brightness": [4, 4, 4]}}
  ],
  "items": [
    {"geometry": "ball", "material": "glass"},
    {"geometry": "floor", "material": "matte"}
  ]
}`

func decodeString(t *testing.T, doc string) (*scene.Scene, error) {
	t.Helper()
	return DecodeScene(strings.NewReader(doc), t.TempDir())
}

func TestDecodeScene_Valid(t *testing.T) {
	s, err := decodeString(t, validDocument)
	if err != nil {
		t.Fatalf("DecodeScene failed: %v", err)
	}

	if s.Textures.Len() != 4 || s.Geometries.Len() != 2 || s.Materials.Len() != 4 {
		t.Fatalf("Unexpected cache sizes: %d textures, %d geometries, %d materials",
			s.Textures.Len(), s.Geometries.Len(), s.Materials.Len())
	}
	if len(s.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(s.Items))
	}

	ball, _ := s.Geometries.IndexFor("ball")
	glass, _ := s.Materials.IndexFor("glass")
	if s.Items[0].Geometry != ball || s.Items[0].Material != glass {
		t.Errorf("Expected item 0 to pair ball with glass, got %+v", s.Items[0])
	}

	config := s.Camera.Config()
	if config.VFov != 40 || config.AspectRatio != 1.5 {
		t.Errorf("Unexpected camera config %+v", config)
	}

	if _, ok := s.SkyBox.(*skybox.Cubemap); !ok {
		t.Errorf("Expected cubemap sky box, got %T", s.SkyBox)
	}

	matte := s.Materials.Get(0).(*material.Lambertian)
	flat, _ := s.Textures.IndexFor("flat")
	if matte.NormalMap != flat {
		t.Errorf("Expected normal map index %d, got %d", flat, matte.NormalMap)
	}
	mirror := s.Materials.Get(1).(*material.Metal)
	if mirror.NormalMap != material.NoNormalMap {
		t.Errorf("Expected no normal map, got %d", mirror.NormalMap)
	}
}

func TestDecodeScene_HexColor(t *testing.T) {
	s, err := decodeString(t, validDocument)
	if err != nil {
		t.Fatalf("DecodeScene failed: %v", err)
	}

	sky := s.Textures.Get(0).(*texture.Solid)
	expected := core.NewVec3(128.0/255.0, 179.0/255.0, 1)
	if math.Abs(sky.Value.X-expected.X) > 1e-9 ||
		math.Abs(sky.Value.Y-expected.Y) > 1e-9 ||
		math.Abs(sky.Value.Z-expected.Z) > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, sky.Value)
	}
}

func TestColor_UnmarshalJSON_Invalid(t *testing.T) {
	tests := []string{`"#zzzzzz"`, `"red"`, `[1, 2]`, `[1, 2, 3, 4]`, `[]`, `{"r": 1}`}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			var c Color
			if err := json.Unmarshal([]byte(input), &c); err == nil {
				t.Errorf("Expected error for %s, got %v", input, c)
			}
		})
	}
}

func TestVector_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    Vector
		wantErr bool
	}{
		{`[1, 2, 3]`, Vector{1, 2, 3}, false},
		{`[-0.5, 0, 1e3]`, Vector{-0.5, 0, 1000}, false},
		{`[1, 2]`, Vector{}, true},
		{`[1, 2, 3, 4]`, Vector{}, true},
		{`[]`, Vector{}, true},
		{`"1,2,3"`, Vector{}, true},
		{`[1, "2", 3]`, Vector{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var v Vector
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s, got %v", tt.input, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, v)
			}
		})
	}
}

func TestDecodeScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{
			name:    "unknown texture name",
			from:    `"lambertian": {"texture": "white"`,
			to:      `"lambertian": {"texture": "black"`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "unknown item geometry",
			from:    `{"geometry": "ball", "material": "glass"}`,
			to:      `{"geometry": "cube", "material": "glass"}`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "unknown normal map",
			from:    `"normalMap": "flat"`,
			to:      `"normalMap": "bumpy"`,
			wantErr: ErrUnknownName,
		},
		{
			name:    "duplicate texture name",
			from:    `{"name": "fade",`,
			to:      `{"name": "white",`,
			wantErr: cache.ErrDuplicateName,
		},
		{
			name:    "two geometry variants",
			from:    `"sphere": {"center": [0, 0, 0], "radius": 0.5}`,
			to:      `"sphere": {"center": [0, 0, 0], "radius": 0.5}, "plane": {"center": [0, 0, 0], "u": [1, 0, 0], "v": [0, 1, 0]}`,
			wantErr: ErrVariant,
		},
		{
			name:    "unknown field",
			from:    `"light": {"texture": "white", "brightness": [4, 4, 4]}`,
			to:      `"comment": "nothing"`,
			wantErr: nil,
		},
		{
			name:    "two-component sphere center",
			from:    `"sphere": {"center": [0, 0, 0], "radius": 0.5}`,
			to:      `"sphere": {"center": [0, 0], "radius": 0.5}`,
			wantErr: nil,
		},
		{
			name:    "four-component plane span",
			from:    `"u": [10, 0, 0]`,
			to:      `"u": [10, 0, 0, 1]`,
			wantErr: nil,
		},
		{
			name:    "two-component camera position",
			from:    `"position": [0, 1, 3]`,
			to:      `"position": [0, 1]`,
			wantErr: nil,
		},
		{
			name:    "gradient used as normal map",
			from:    `"normalMap": "flat"`,
			to:      `"normalMap": "fade"`,
			wantErr: scene.ErrInvalidNormalMap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(validDocument, tt.from) {
				t.Fatalf("Fixture does not contain %q", tt.from)
			}
			doc := strings.Replace(validDocument, tt.from, tt.to, 1)
			_, err := decodeString(t, doc)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecodeScene_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"zero aspect", `"aspect": 1.5`, `"aspect": 0`},
		{"negative refractive index", `"refractiveIndex": 1.5`, `"refractiveIndex": -1`},
		{"short pixel buffer", `"pixels": "gID/"`, `"pixels": "gIA="`},
		{"missing image file", `"width": 1, "height": 1, "channels": 3, "pixels": "gID/"`, `"path": "missing.png"`},
		{"empty sky box", `"skybox": {"cubemap": {"up": "sky", "down": "sky", "left": "sky", "right": "sky", "front": "sky", "back": "sky"}}`, `"skybox": {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(validDocument, tt.from) {
				t.Fatalf("Fixture does not contain %q", tt.from)
			}
			if _, err := decodeString(t, strings.Replace(validDocument, tt.from, tt.to, 1)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadScene_RelativeImagePath(t *testing.T) {
	dir := t.TempDir()
	if err := WriteImage(filepath.Join(dir, "quad.png"), newQuadImage()); err != nil {
		t.Fatal(err)
	}

	doc := strings.Replace(validDocument,
		`"width": 1, "height": 1, "channels": 3, "pixels": "gID/"`,
		`"path": "quad.png"`, 1)
	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	idx, _ := s.Textures.IndexFor("flat")
	img := s.Textures.Get(idx).(*texture.Image)
	if !filepath.IsAbs(img.Path) || filepath.Base(img.Path) != "quad.png" {
		t.Errorf("Expected absolute path to quad.png, got %q", img.Path)
	}
}

func TestEncodeScene_RoundTrip(t *testing.T) {
	builders := map[string]func(t *testing.T) *scene.Scene{
		"default":      func(t *testing.T) *scene.Scene { return scene.NewDefaultScene(16.0 / 9.0) },
		"random balls": func(t *testing.T) *scene.Scene { return scene.NewRandomBallsScene(7, 1.5) },
		"document": func(t *testing.T) *scene.Scene {
			s, err := decodeString(t, validDocument)
			if err != nil {
				t.Fatalf("DecodeScene failed: %v", err)
			}
			return s
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			original := build(t)

			var buf bytes.Buffer
			if err := EncodeScene(&buf, original); err != nil {
				t.Fatalf("EncodeScene failed: %v", err)
			}
			decoded, err := DecodeScene(bytes.NewReader(buf.Bytes()), t.TempDir())
			if err != nil {
				t.Fatalf("DecodeScene failed: %v\n%s", err, buf.String())
			}

			want, err := NewDocument(original)
			if err != nil {
				t.Fatal(err)
			}
			got, err := NewDocument(decoded)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("Round trip changed the scene document")
			}
		})
	}
}

func TestEncodeScene_InvalidScene(t *testing.T) {
	s := scene.NewDefaultScene(1)
	s.AddItem(s.Geometries.Len(), 0)

	var buf bytes.Buffer
	if err := EncodeScene(&buf, s); !errors.Is(err, scene.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}
