package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/skybox"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// ErrUnknownVariant is returned when a scene holds a type this package cannot encode
var ErrUnknownVariant = errors.New("unknown variant")

// EncodeScene writes s as an indented scene document
func EncodeScene(w io.Writer, s *scene.Scene) error {
	doc, err := NewDocument(s)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write scene document: %w", err)
	}
	return nil
}

// NewDocument converts a scene back into its document form
func NewDocument(s *scene.Scene) (Document, error) {
	if err := s.Validate(); err != nil {
		return Document{}, err
	}

	config := s.Camera.Config()
	doc := Document{
		Camera: CameraDoc{
			Position: vectorOf(config.Position),
			LookAt:   vectorOf(config.LookAt),
			Up:       vectorOf(config.Up),
			VFov:     config.VFov,
			Aspect:   config.AspectRatio,
		},
		Textures:   make([]TextureEntry, 0, s.Textures.Len()),
		Geometries: make([]GeometryEntry, 0, s.Geometries.Len()),
		Materials:  make([]MaterialEntry, 0, s.Materials.Len()),
		Items:      make([]ItemDoc, 0, len(s.Items)),
	}

	switch sky := s.SkyBox.(type) {
	case *skybox.Cubemap:
		doc.SkyBox.Cubemap = &CubemapDoc{
			Up:    s.Textures.Name(sky.Up),
			Down:  s.Textures.Name(sky.Down),
			Left:  s.Textures.Name(sky.Left),
			Right: s.Textures.Name(sky.Right),
			Front: s.Textures.Name(sky.Front),
			Back:  s.Textures.Name(sky.Back),
		}
	case *skybox.Equirectangular:
		doc.SkyBox.Equirectangular = &EquirectangularDoc{Texture: s.Textures.Name(sky.Texture)}
	default:
		return Document{}, fmt.Errorf("skybox %T: %w", sky, ErrUnknownVariant)
	}

	for i := 0; i < s.Textures.Len(); i++ {
		entry := TextureEntry{Name: s.Textures.Name(i)}
		switch tex := s.Textures.Get(i).(type) {
		case *texture.Solid:
			entry.Solid = &SolidDoc{Color: colorOf(tex.Value)}
		case *texture.LinearGradient:
			entry.LinearGradient = &LinearGradientDoc{From: colorOf(tex.From), To: colorOf(tex.To)}
		case *texture.Image:
			entry.Image = imageDocOf(tex)
		default:
			return Document{}, fmt.Errorf("texture %q %T: %w", entry.Name, tex, ErrUnknownVariant)
		}
		doc.Textures = append(doc.Textures, entry)
	}

	for i := 0; i < s.Geometries.Len(); i++ {
		entry := GeometryEntry{Name: s.Geometries.Name(i)}
		switch geo := s.Geometries.Get(i).(type) {
		case *geometry.Sphere:
			entry.Sphere = &SphereDoc{Center: vectorOf(geo.Center), Radius: geo.Radius}
		case *geometry.Plane:
			entry.Plane = &PlaneDoc{Center: vectorOf(geo.Center), U: vectorOf(geo.U), V: vectorOf(geo.V)}
		default:
			return Document{}, fmt.Errorf("geometry %q %T: %w", entry.Name, geo, ErrUnknownVariant)
		}
		doc.Geometries = append(doc.Geometries, entry)
	}

	for i := 0; i < s.Materials.Len(); i++ {
		entry := MaterialEntry{Name: s.Materials.Name(i)}
		switch mat := s.Materials.Get(i).(type) {
		case *material.Lambertian:
			entry.Lambertian = &LambertianDoc{
				Texture:   s.Textures.Name(mat.Texture),
				NormalMap: normalMapName(s.Textures, mat.NormalMap),
			}
		case *material.Metal:
			entry.Metal = &MetalDoc{
				Texture:   s.Textures.Name(mat.Texture),
				NormalMap: normalMapName(s.Textures, mat.NormalMap),
				Fuzz:      mat.Fuzz,
			}
		case *material.Dielectric:
			entry.Dielectric = &DielectricDoc{
				RefractiveIndex: mat.RefractiveIndex,
				NormalMap:       normalMapName(s.Textures, mat.NormalMap),
			}
		case *material.Light:
			entry.Light = &LightDoc{
				Texture:    s.Textures.Name(mat.Texture),
				Brightness: colorOf(mat.Brightness),
			}
		default:
			return Document{}, fmt.Errorf("material %q %T: %w", entry.Name, mat, ErrUnknownVariant)
		}
		doc.Materials = append(doc.Materials, entry)
	}

	for _, item := range s.Items {
		doc.Items = append(doc.Items, ItemDoc{
			Geometry: s.Geometries.Name(item.Geometry),
			Material: s.Materials.Name(item.Material),
		})
	}

	return doc, nil
}

// imageDocOf references file-backed images by path and inlines generated ones
func imageDocOf(img *texture.Image) *ImageDoc {
	if img.Path != "" {
		return &ImageDoc{Path: img.Path}
	}
	return &ImageDoc{
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Pixels:   img.Pixels,
	}
}

func normalMapName(textures *cache.Cache[texture.Texture], idx int) string {
	if idx == material.NoNormalMap {
		return ""
	}
	return textures.Name(idx)
}
