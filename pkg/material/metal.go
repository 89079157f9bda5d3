package material

import (
	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Texture   int     // Metal color
	NormalMap int     // Image texture index or NoNormalMap
	Fuzz      float64 // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(textureIdx int, fuzz float64) *Metal {
	// Clamp fuzz to valid range
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if !(fuzz > 0.0) {
		fuzz = 0.0
	}
	return &Metal{Texture: textureIdx, NormalMap: NoNormalMap, Fuzz: fuzz}
}

// Interact mirrors the incoming ray, perturbed by fuzz.
// Rays perturbed below the surface are absorbed.
func (m *Metal) Interact(textures *cache.Cache[texture.Texture], rayIn core.Ray, hit geometry.HitInfo, sampler core.Sampler) Interaction {
	unitDirection := rayIn.Direction.Normalize()
	normal := shadingNormal(textures, m.NormalMap, hit)

	reflected := unitDirection.Reflect(normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzz))
	}

	if reflected.Dot(normal) <= 0 {
		return Terminate(core.Vec3{})
	}

	albedo := textures.Get(m.Texture).Color(hit.U, hit.V)
	return Scatter(core.NewRay(hit.Point, reflected), albedo)
}

// TextureIndices implements Material
func (m *Metal) TextureIndices() []int {
	return []int{m.Texture}
}

// NormalMapIndex implements Material
func (m *Metal) NormalMapIndex() (int, bool) {
	return normalMapIndex(m.NormalMap)
}

func (*Metal) isMaterial() {}
