package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/skybox"
	"github.com/df07/go-pathtracer/pkg/texture"
)

var (
	// ErrIndexOutOfRange is returned by Validate when a reference does not resolve
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidNormalMap is returned by Validate when a normal map is not an image texture
	ErrInvalidNormalMap = errors.New("normal map must be an image texture")
	// ErrInvalidImage is returned by Validate when an image texture has no pixels to sample
	ErrInvalidImage = errors.New("invalid image texture")
)

// Item places a geometry in the scene with a material.
// Both fields are indices into the scene's caches.
type Item struct {
	Geometry int
	Material int
}

// Scene contains all the elements needed for rendering.
// It is read-only once rendering starts.
type Scene struct {
	Camera     *geometry.Camera
	SkyBox     skybox.SkyBox
	Textures   *cache.Cache[texture.Texture]
	Geometries *cache.Cache[geometry.Geometry]
	Materials  *cache.Cache[material.Material]
	Items      []Item
}

// New creates a scene with empty caches
func New(camera *geometry.Camera, sky skybox.SkyBox) *Scene {
	return &Scene{
		Camera:     camera,
		SkyBox:     sky,
		Textures:   cache.New[texture.Texture](),
		Geometries: cache.New[geometry.Geometry](),
		Materials:  cache.New[material.Material](),
	}
}

// AddItem appends an item referencing already cached geometry and material
func (s *Scene) AddItem(geometryIdx, materialIdx int) {
	s.Items = append(s.Items, Item{Geometry: geometryIdx, Material: materialIdx})
}

// Hit returns the nearest intersection in [tMin, tMax] and the item that produced it.
// On equal t the earlier item wins.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (geometry.HitInfo, Item, bool) {
	var closest geometry.HitInfo
	var closestItem Item
	found := false
	closestSoFar := tMax

	for _, item := range s.Items {
		hit, ok := s.Geometries.Get(item.Geometry).Hit(ray, tMin, closestSoFar)
		if !ok || (found && !(hit.T < closest.T)) {
			continue
		}
		closest = hit
		closestItem = item
		closestSoFar = hit.T
		found = true
	}

	return closest, closestItem, found
}

// Background returns the sky color seen along direction
func (s *Scene) Background(direction core.Vec3) core.Vec3 {
	return s.SkyBox.Color(s.Textures, direction)
}

// Bounds returns the union of every item's bounding box
func (s *Scene) Bounds() core.AABB {
	var bounds core.AABB
	for i, item := range s.Items {
		box := s.Geometries.Get(item.Geometry).BoundingBox()
		if i == 0 {
			bounds = box
			continue
		}
		bounds = bounds.Union(box)
	}
	return bounds
}

// Validate checks that every cross reference resolves inside its cache
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return errors.New("scene has no camera")
	}
	if s.SkyBox == nil {
		return errors.New("scene has no skybox")
	}
	if s.Textures == nil || s.Geometries == nil || s.Materials == nil {
		return errors.New("scene caches are not initialized")
	}

	for _, idx := range s.SkyBox.TextureIndices() {
		if !s.Textures.Contains(idx) {
			return fmt.Errorf("skybox texture %d: %w", idx, ErrIndexOutOfRange)
		}
	}

	for i := 0; i < s.Textures.Len(); i++ {
		if img, ok := s.Textures.Get(i).(*texture.Image); ok {
			if err := img.Validate(); err != nil {
				return fmt.Errorf("texture %q: %w: %w", s.Textures.Name(i), ErrInvalidImage, err)
			}
		}
	}

	for i := 0; i < s.Materials.Len(); i++ {
		if err := s.validateMaterial(s.Materials.Get(i)); err != nil {
			return fmt.Errorf("material %q: %w", s.Materials.Name(i), err)
		}
	}

	for i, item := range s.Items {
		if !s.Geometries.Contains(item.Geometry) {
			return fmt.Errorf("item %d: geometry %d: %w", i, item.Geometry, ErrIndexOutOfRange)
		}
		if !s.Materials.Contains(item.Material) {
			return fmt.Errorf("item %d: material %d: %w", i, item.Material, ErrIndexOutOfRange)
		}
	}

	return nil
}

func (s *Scene) validateMaterial(m material.Material) error {
	for _, idx := range m.TextureIndices() {
		if !s.Textures.Contains(idx) {
			return fmt.Errorf("texture %d: %w", idx, ErrIndexOutOfRange)
		}
	}

	idx, ok := m.NormalMapIndex()
	if !ok {
		return nil
	}
	if !s.Textures.Contains(idx) {
		return fmt.Errorf("normal map %d: %w", idx, ErrIndexOutOfRange)
	}
	if _, isImage := s.Textures.Get(idx).(*texture.Image); !isImage {
		return fmt.Errorf("normal map %q: %w", s.Textures.Name(idx), ErrInvalidNormalMap)
	}
	return nil
}
