package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/skybox"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// LoadScene reads and validates the scene document at path
func LoadScene(path string) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := DecodeScene(file, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DecodeScene parses a scene document and resolves every name to a cache index.
// Image paths are relative to baseDir.
func DecodeScene(r io.Reader, baseDir string) (*scene.Scene, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse scene document: %w", err)
	}
	return BuildScene(doc, baseDir)
}

// BuildScene converts a parsed document into a validated scene
func BuildScene(doc Document, baseDir string) (*scene.Scene, error) {
	if !(doc.Camera.Aspect > 0) {
		return nil, fmt.Errorf("camera aspect %v must be positive", doc.Camera.Aspect)
	}
	camera := geometry.NewCamera(geometry.CameraConfig{
		Position:    doc.Camera.Position.Vec3(),
		LookAt:      doc.Camera.LookAt.Vec3(),
		Up:          doc.Camera.Up.Vec3(),
		VFov:        doc.Camera.VFov,
		AspectRatio: doc.Camera.Aspect,
	})
	s := scene.New(camera, nil)

	for _, entry := range doc.Textures {
		tex, err := buildTexture(entry, baseDir)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", entry.Name, err)
		}
		if _, err := s.Textures.Add(entry.Name, tex); err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
	}

	sky, err := buildSkyBox(doc.SkyBox, s.Textures)
	if err != nil {
		return nil, fmt.Errorf("skybox: %w", err)
	}
	s.SkyBox = sky

	for _, entry := range doc.Geometries {
		geo, err := buildGeometry(entry)
		if err != nil {
			return nil, fmt.Errorf("geometry %q: %w", entry.Name, err)
		}
		if _, err := s.Geometries.Add(entry.Name, geo); err != nil {
			return nil, fmt.Errorf("geometry: %w", err)
		}
	}

	for _, entry := range doc.Materials {
		mat, err := buildMaterial(entry, s.Textures)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", entry.Name, err)
		}
		if _, err := s.Materials.Add(entry.Name, mat); err != nil {
			return nil, fmt.Errorf("material: %w", err)
		}
	}

	for i, item := range doc.Items {
		geometryIdx, err := resolve(s.Geometries, "geometry", item.Geometry)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		materialIdx, err := resolve(s.Materials, "material", item.Material)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		s.AddItem(geometryIdx, materialIdx)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolve[T any](c *cache.Cache[T], kind, name string) (int, error) {
	idx, ok := c.IndexFor(name)
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", kind, name, ErrUnknownName)
	}
	return idx, nil
}

// resolveNormalMap maps an empty name to NoNormalMap
func resolveNormalMap(textures *cache.Cache[texture.Texture], name string) (int, error) {
	if name == "" {
		return material.NoNormalMap, nil
	}
	return resolve(textures, "normal map", name)
}

func countSet(set ...bool) int {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	return n
}

func buildTexture(entry TextureEntry, baseDir string) (texture.Texture, error) {
	if countSet(entry.Solid != nil, entry.LinearGradient != nil, entry.Image != nil) != 1 {
		return nil, ErrVariant
	}

	switch {
	case entry.Solid != nil:
		return texture.NewSolid(entry.Solid.Color.Vec3()), nil
	case entry.LinearGradient != nil:
		return texture.NewLinearGradient(entry.LinearGradient.From.Vec3(), entry.LinearGradient.To.Vec3()), nil
	default:
		return buildImage(*entry.Image, baseDir)
	}
}

func buildImage(doc ImageDoc, baseDir string) (*texture.Image, error) {
	if doc.Path == "" {
		return texture.NewImage(doc.Width, doc.Height, doc.Channels, doc.Pixels)
	}

	path := doc.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return LoadImageTexture(path)
}

func buildSkyBox(doc SkyBoxDoc, textures *cache.Cache[texture.Texture]) (skybox.SkyBox, error) {
	if countSet(doc.Cubemap != nil, doc.Equirectangular != nil) != 1 {
		return nil, ErrVariant
	}

	if doc.Equirectangular != nil {
		idx, err := resolve(textures, "texture", doc.Equirectangular.Texture)
		if err != nil {
			return nil, err
		}
		return skybox.NewEquirectangular(idx), nil
	}

	faces := []string{doc.Cubemap.Up, doc.Cubemap.Down, doc.Cubemap.Left, doc.Cubemap.Right, doc.Cubemap.Front, doc.Cubemap.Back}
	indices := make([]int, len(faces))
	for i, name := range faces {
		idx, err := resolve(textures, "texture", name)
		if err != nil {
			return nil, fmt.Errorf("%s face: %w", skybox.Face(i), err)
		}
		indices[i] = idx
	}
	return &skybox.Cubemap{
		Up:    indices[skybox.FaceUp],
		Down:  indices[skybox.FaceDown],
		Left:  indices[skybox.FaceLeft],
		Right: indices[skybox.FaceRight],
		Front: indices[skybox.FaceFront],
		Back:  indices[skybox.FaceBack],
	}, nil
}

func buildGeometry(entry GeometryEntry) (geometry.Geometry, error) {
	if countSet(entry.Sphere != nil, entry.Plane != nil) != 1 {
		return nil, ErrVariant
	}

	if entry.Sphere != nil {
		return geometry.NewSphere(entry.Sphere.Center.Vec3(), entry.Sphere.Radius), nil
	}
	return geometry.NewPlane(entry.Plane.Center.Vec3(), entry.Plane.U.Vec3(), entry.Plane.V.Vec3()), nil
}

func buildMaterial(entry MaterialEntry, textures *cache.Cache[texture.Texture]) (material.Material, error) {
	if countSet(entry.Lambertian != nil, entry.Metal != nil, entry.Dielectric != nil, entry.Light != nil) != 1 {
		return nil, ErrVariant
	}

	switch {
	case entry.Lambertian != nil:
		tex, err := resolve(textures, "texture", entry.Lambertian.Texture)
		if err != nil {
			return nil, err
		}
		normalMap, err := resolveNormalMap(textures, entry.Lambertian.NormalMap)
		if err != nil {
			return nil, err
		}
		m := material.NewLambertian(tex)
		m.NormalMap = normalMap
		return m, nil

	case entry.Metal != nil:
		tex, err := resolve(textures, "texture", entry.Metal.Texture)
		if err != nil {
			return nil, err
		}
		normalMap, err := resolveNormalMap(textures, entry.Metal.NormalMap)
		if err != nil {
			return nil, err
		}
		m := material.NewMetal(tex, entry.Metal.Fuzz)
		m.NormalMap = normalMap
		return m, nil

	case entry.Dielectric != nil:
		if !(entry.Dielectric.RefractiveIndex > 0) {
			return nil, errors.New("refractive index must be positive")
		}
		normalMap, err := resolveNormalMap(textures, entry.Dielectric.NormalMap)
		if err != nil {
			return nil, err
		}
		m := material.NewDielectric(entry.Dielectric.RefractiveIndex)
		m.NormalMap = normalMap
		return m, nil

	default:
		tex, err := resolve(textures, "texture", entry.Light.Texture)
		if err != nil {
			return nil, err
		}
		return material.NewLight(tex, entry.Light.Brightness.Vec3()), nil
	}
}
