package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the linear radiance carried back along ray
	RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Vec3
}

// EstimatePixel averages samples jittered camera rays through pixel (i, j).
// Row j counts from the top of the image. Non-finite samples count as black.
func EstimatePixel(integrator Integrator, scn *scene.Scene, i, j, width, height, samples int, sampler core.Sampler) core.Vec3 {
	if samples <= 0 {
		return core.Vec3{}
	}

	var sum core.Vec3
	for n := 0; n < samples; n++ {
		jitter := sampler.Get2D()
		s := (float64(i) + jitter.X) / float64(width)
		t := (float64(height-1-j) + jitter.Y) / float64(height)

		color := integrator.RayColor(scn.Camera.GetRay(s, t), scn, sampler)
		if !color.IsFinite() {
			continue
		}
		sum = sum.Add(color)
	}

	return sum.Multiply(1.0 / float64(samples))
}
