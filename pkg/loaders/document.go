package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/df07/go-pathtracer/pkg/core"
)

var (
	// ErrUnknownName is returned when a reference names no cache entry
	ErrUnknownName = errors.New("unknown name")
	// ErrVariant is returned when an entry sets zero or several variants
	ErrVariant = errors.New("entry must set exactly one variant")
)

// Document is the JSON form of a scene.
// Cache entries are referenced by name; array order is index order.
type Document struct {
	Camera     CameraDoc       `json:"camera"`
	SkyBox     SkyBoxDoc       `json:"skybox"`
	Textures   []TextureEntry  `json:"textures"`
	Geometries []GeometryEntry `json:"geometries"`
	Materials  []MaterialEntry `json:"materials"`
	Items      []ItemDoc       `json:"items"`
}

// CameraDoc describes the camera; vfov is in degrees
type CameraDoc struct {
	Position Vector  `json:"position"`
	LookAt   Vector  `json:"lookAt"`
	Up       Vector  `json:"up"`
	VFov     float64 `json:"vfov"`
	Aspect   float64 `json:"aspect"`
}

// SkyBoxDoc sets exactly one of its variants
type SkyBoxDoc struct {
	Cubemap         *CubemapDoc         `json:"cubemap,omitempty"`
	Equirectangular *EquirectangularDoc `json:"equirectangular,omitempty"`
}

// CubemapDoc names one texture per face
type CubemapDoc struct {
	Up    string `json:"up"`
	Down  string `json:"down"`
	Left  string `json:"left"`
	Right string `json:"right"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// EquirectangularDoc names the panorama texture
type EquirectangularDoc struct {
	Texture string `json:"texture"`
}

// TextureEntry is a named texture; exactly one variant is set
type TextureEntry struct {
	Name           string             `json:"name"`
	Solid          *SolidDoc          `json:"solid,omitempty"`
	LinearGradient *LinearGradientDoc `json:"linearGradient,omitempty"`
	Image          *ImageDoc          `json:"image,omitempty"`
}

type SolidDoc struct {
	Color Color `json:"color"`
}

type LinearGradientDoc struct {
	From Color `json:"from"`
	To   Color `json:"to"`
}

// ImageDoc either points at an image file or carries the pixels inline.
// Relative paths resolve against the document's directory.
type ImageDoc struct {
	Path     string `json:"path,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Channels int    `json:"channels,omitempty"`
	Pixels   []byte `json:"pixels,omitempty"`
}

// GeometryEntry is a named geometry; exactly one variant is set
type GeometryEntry struct {
	Name   string     `json:"name"`
	Sphere *SphereDoc `json:"sphere,omitempty"`
	Plane  *PlaneDoc  `json:"plane,omitempty"`
}

type SphereDoc struct {
	Center Vector  `json:"center"`
	Radius float64 `json:"radius"`
}

// PlaneDoc spans center ± u ± v
type PlaneDoc struct {
	Center Vector `json:"center"`
	U      Vector `json:"u"`
	V      Vector `json:"v"`
}

// MaterialEntry is a named material; exactly one variant is set
type MaterialEntry struct {
	Name       string         `json:"name"`
	Lambertian *LambertianDoc `json:"lambertian,omitempty"`
	Metal      *MetalDoc      `json:"metal,omitempty"`
	Dielectric *DielectricDoc `json:"dielectric,omitempty"`
	Light      *LightDoc      `json:"light,omitempty"`
}

type LambertianDoc struct {
	Texture   string `json:"texture"`
	NormalMap string `json:"normalMap,omitempty"`
}

type MetalDoc struct {
	Texture   string  `json:"texture"`
	NormalMap string  `json:"normalMap,omitempty"`
	Fuzz      float64 `json:"fuzz"`
}

type DielectricDoc struct {
	RefractiveIndex float64 `json:"refractiveIndex"`
	NormalMap       string  `json:"normalMap,omitempty"`
}

type LightDoc struct {
	Texture    string `json:"texture"`
	Brightness Color  `json:"brightness"`
}

// ItemDoc pairs a geometry with a material by name
type ItemDoc struct {
	Geometry string `json:"geometry"`
	Material string `json:"material"`
}

// Vector is an [x, y, z] triple
type Vector [3]float64

// Vec3 converts to core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Vector) UnmarshalJSON(data []byte) error {
	xyz, err := decodeTriple(data)
	if err != nil {
		return fmt.Errorf("vector must be [x,y,z]: %w", err)
	}
	*v = xyz
	return nil
}

func vectorOf(v core.Vec3) Vector {
	return Vector{v.X, v.Y, v.Z}
}

// Color is an [r, g, b] triple. It also decodes from a "#rrggbb" hex string.
// Components may exceed 1 for emission.
type Color [3]float64

// Vec3 converts to core.Vec3
func (c Color) Vec3() core.Vec3 {
	return core.NewVec3(c[0], c[1], c[2])
}

func colorOf(v core.Vec3) Color {
	return Color{v.X, v.Y, v.Z}
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Color) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		var hex string
		if err := json.Unmarshal(data, &hex); err != nil {
			return err
		}
		parsed, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		*c = Color{parsed.R, parsed.G, parsed.B}
		return nil
	}

	rgb, err := decodeTriple(data)
	if err != nil {
		return fmt.Errorf("color must be [r,g,b] or \"#rrggbb\": %w", err)
	}
	*c = rgb
	return nil
}

// decodeTriple decodes a JSON array of exactly three finite numbers
func decodeTriple(data []byte) ([3]float64, error) {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return [3]float64{}, err
	}
	if len(values) != 3 {
		return [3]float64{}, fmt.Errorf("got %d components, want 3", len(values))
	}
	for _, f := range values {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return [3]float64{}, fmt.Errorf("component %v is not finite", f)
		}
	}
	return [3]float64{values[0], values[1], values[2]}, nil
}
