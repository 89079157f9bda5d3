package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// tMin keeps bounced rays from re-hitting the surface they left
const tMin = 0.001

// PathTracingIntegrator implements unidirectional path tracing
type PathTracingIntegrator struct {
	MaxReflections int // Bounce budget; depth at or past it returns black
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxReflections int) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxReflections: maxReflections}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, scn, sampler, 0)
}

// Trace evaluates ray at the given bounce depth
func (pt *PathTracingIntegrator) Trace(ray core.Ray, scn *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth >= pt.MaxReflections {
		return core.Vec3{}
	}

	hit, item, isHit := scn.Hit(ray, tMin, math.Inf(1))
	if !isHit {
		return scn.Background(ray.Direction)
	}

	interaction := scn.Materials.Get(item.Material).Interact(scn.Textures, ray, hit, sampler)
	if interaction.Terminal {
		return interaction.Color
	}

	return interaction.Attenuation.MultiplyVec(pt.Trace(interaction.Scattered, scn, sampler, depth+1))
}
