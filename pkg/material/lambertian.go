package material

import (
	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Texture   int // Albedo texture
	NormalMap int // Image texture index or NoNormalMap
}

// NewLambertian creates a new lambertian material sampling albedo from texture
func NewLambertian(textureIdx int) *Lambertian {
	return &Lambertian{Texture: textureIdx, NormalMap: NoNormalMap}
}

// Interact scatters toward a random point in the unit sphere around the normal tip
func (l *Lambertian) Interact(textures *cache.Cache[texture.Texture], rayIn core.Ray, hit geometry.HitInfo, sampler core.Sampler) Interaction {
	normal := shadingNormal(textures, l.NormalMap, hit)

	direction := normal.Add(core.RandomInUnitSphere(sampler))
	// Catch degenerate scatter direction
	if direction.LengthSquared() < 1e-16 {
		direction = normal
	}

	albedo := textures.Get(l.Texture).Color(hit.U, hit.V)
	return Scatter(core.NewRay(hit.Point, direction.Normalize()), albedo)
}

// TextureIndices implements Material
func (l *Lambertian) TextureIndices() []int {
	return []int{l.Texture}
}

// NormalMapIndex implements Material
func (l *Lambertian) NormalMapIndex() (int, bool) {
	return normalMapIndex(l.NormalMap)
}

func (*Lambertian) isMaterial() {}
