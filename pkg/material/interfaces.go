package material

import (
	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// NoNormalMap marks a material that shades with the geometric normal
const NoNormalMap = -1

// Material decides what happens to a ray that hits a surface.
// The set is closed: Lambertian, Metal, Dielectric and Light.
type Material interface {
	// Interact either scatters the ray or terminates the path with a color.
	// Texture references are indices into textures.
	Interact(textures *cache.Cache[texture.Texture], rayIn core.Ray, hit geometry.HitInfo, sampler core.Sampler) Interaction

	// TextureIndices lists every color texture the material samples
	TextureIndices() []int

	// NormalMapIndex returns the normal map texture, if any
	NormalMapIndex() (int, bool)

	isMaterial()
}

// Interaction is the outcome of a ray hitting a material
type Interaction struct {
	Terminal    bool      // Path ends here with Color
	Color       core.Vec3 // Emitted or absorbed color for terminal interactions
	Scattered   core.Ray  // Continuation ray for non-terminal interactions
	Attenuation core.Vec3 // Color attenuation applied to the continuation
}

// Scatter continues the path along scattered, attenuated by attenuation
func Scatter(scattered core.Ray, attenuation core.Vec3) Interaction {
	return Interaction{Scattered: scattered, Attenuation: attenuation}
}

// Terminate ends the path with color
func Terminate(color core.Vec3) Interaction {
	return Interaction{Terminal: true, Color: color}
}

// shadingNormal returns the normal used for scattering at hit.
// A normal map replaces the geometric normal when one is set.
func shadingNormal(textures *cache.Cache[texture.Texture], normalMap int, hit geometry.HitInfo) core.Vec3 {
	if normalMap == NoNormalMap {
		return hit.Normal()
	}
	img, ok := textures.Get(normalMap).(*texture.Image)
	if !ok {
		return hit.Normal()
	}
	return img.Normal(hit.U, hit.V, hit.Frame)
}

func normalMapIndex(normalMap int) (int, bool) {
	return normalMap, normalMap != NoNormalMap
}
