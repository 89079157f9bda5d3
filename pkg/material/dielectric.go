package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
	NormalMap       int     // Image texture index or NoNormalMap
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, NormalMap: NoNormalMap}
}

// Interact refracts or reflects the ray, choosing stochastically by Schlick reflectance
func (d *Dielectric) Interact(textures *cache.Cache[texture.Texture], rayIn core.Ray, hit geometry.HitInfo, sampler core.Sampler) Interaction {
	// Dielectrics always attenuate by 1.0 (no color absorption for clear glass)
	attenuation := core.Splat(1.0)

	unitDirection := rayIn.Direction.Normalize()
	normal := shadingNormal(textures, d.NormalMap, hit)

	// Determine if we're entering or exiting the material
	var outwardNormal core.Vec3
	var refractionRatio, cosine float64
	if unitDirection.Dot(normal) > 0 {
		// Exiting (from glass to air)
		outwardNormal = normal.Negate()
		refractionRatio = d.RefractiveIndex
		cosine = d.RefractiveIndex * unitDirection.Dot(normal)
	} else {
		// Entering (from air to glass)
		outwardNormal = normal
		refractionRatio = 1.0 / d.RefractiveIndex
		cosine = -unitDirection.Dot(normal)
	}

	reflected := unitDirection.Reflect(normal)
	refracted, canRefract := unitDirection.Refract(outwardNormal, refractionRatio)
	if !canRefract || sampler.Get1D() < Schlick(cosine, d.RefractiveIndex) {
		return Scatter(core.NewRay(hit.Point, reflected), attenuation)
	}
	return Scatter(core.NewRay(hit.Point, refracted), attenuation)
}

// TextureIndices implements Material; glass samples no color texture
func (d *Dielectric) TextureIndices() []int {
	return nil
}

// NormalMapIndex implements Material
func (d *Dielectric) NormalMapIndex() (int, bool) {
	return normalMapIndex(d.NormalMap)
}

func (*Dielectric) isMaterial() {}

// Schlick calculates the Fresnel reflectance using Schlick's approximation
func Schlick(cosine, refIdx float64) float64 {
	// R0 for normal incidence
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
