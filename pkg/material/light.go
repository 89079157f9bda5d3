package material

import (
	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// Light represents a light-emitting material
type Light struct {
	Texture    int       // Emission color
	Brightness core.Vec3 // Per-channel multiplier on the texture color
}

// NewLight creates a new light material
func NewLight(textureIdx int, brightness core.Vec3) *Light {
	return &Light{Texture: textureIdx, Brightness: brightness}
}

// Interact always terminates the path with the emitted color
func (l *Light) Interact(textures *cache.Cache[texture.Texture], rayIn core.Ray, hit geometry.HitInfo, sampler core.Sampler) Interaction {
	return Terminate(textures.Get(l.Texture).Color(hit.U, hit.V).MultiplyVec(l.Brightness))
}

// TextureIndices implements Material
func (l *Light) TextureIndices() []int {
	return []int{l.Texture}
}

// NormalMapIndex implements Material; lights are never normal mapped
func (l *Light) NormalMapIndex() (int, bool) {
	return NoNormalMap, false
}

func (*Light) isMaterial() {}
