package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/df07/go-pathtracer/pkg/skybox"
	"github.com/df07/go-pathtracer/pkg/texture"
)

var skyColor = core.NewVec3(0.5, 0.7, 1.0)

// createTestScene creates a unit sphere at the origin under a flat sky
func createTestScene(mat func(s *scene.Scene) material.Material) *scene.Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Position:    core.NewVec3(0, 0, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 1,
	})
	s := scene.New(camera, nil)
	s.SkyBox = skybox.NewUniformCubemap(s.Textures.MustAdd("sky", texture.NewSolid(skyColor)))

	s.AddItem(
		s.Geometries.MustAdd("sphere", geometry.NewSphere(core.NewVec3(0, 0, 0), 1)),
		s.Materials.MustAdd("surface", mat(s)),
	)
	return s
}

func gray(s *scene.Scene) int {
	return s.Textures.MustAdd("gray", texture.NewSolid(core.Splat(0.5)))
}

var towardSphere = core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))

func TestPathTracing_ZeroReflectionsIsBlack(t *testing.T) {
	materials := []struct {
		name string
		mat  func(s *scene.Scene) material.Material
	}{
		{"lambertian", func(s *scene.Scene) material.Material { return material.NewLambertian(gray(s)) }},
		{"metal", func(s *scene.Scene) material.Material { return material.NewMetal(gray(s), 0.2) }},
		{"dielectric", func(s *scene.Scene) material.Material { return material.NewDielectric(1.5) }},
	}

	pt := NewPathTracingIntegrator(0)
	for _, tt := range materials {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestScene(tt.mat)
			for seed := int64(0); seed < 10; seed++ {
				color := pt.RayColor(towardSphere, s, core.NewSeededSampler(seed))
				if color != (core.Vec3{}) {
					t.Fatalf("Expected black, got %v", color)
				}
			}
		})
	}
}

func TestPathTracing_MissReturnsSky(t *testing.T) {
	s := createTestScene(func(s *scene.Scene) material.Material { return material.NewLambertian(gray(s)) })
	pt := NewPathTracingIntegrator(5)

	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 1, 0))
	if got := pt.RayColor(ray, s, core.NewSeededSampler(1)); got != skyColor {
		t.Errorf("Expected sky color %v, got %v", skyColor, got)
	}
}

func TestPathTracing_LightTerminates(t *testing.T) {
	s := createTestScene(func(s *scene.Scene) material.Material {
		return material.NewLight(gray(s), core.Splat(4))
	})
	pt := NewPathTracingIntegrator(1)

	got := pt.RayColor(towardSphere, s, core.NewSeededSampler(1))
	if got.Subtract(core.Splat(2)).Length() > 1e-9 {
		t.Errorf("Expected emission (2,2,2), got %v", got)
	}
}

func TestPathTracing_SingleBounce(t *testing.T) {
	// A ray leaving a convex sphere outward can never hit it again,
	// so every path is albedo * sky after one bounce
	tests := []struct {
		name string
		mat  func(s *scene.Scene) material.Material
	}{
		{"lambertian", func(s *scene.Scene) material.Material { return material.NewLambertian(gray(s)) }},
		{"mirror", func(s *scene.Scene) material.Material { return material.NewMetal(gray(s), 0) }},
	}

	expected := skyColor.Multiply(0.5)
	pt := NewPathTracingIntegrator(50)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestScene(tt.mat)
			for seed := int64(0); seed < 20; seed++ {
				got := pt.RayColor(towardSphere, s, core.NewSeededSampler(seed))
				if got.Subtract(expected).Length() > 1e-9 {
					t.Fatalf("seed %d: expected %v, got %v", seed, expected, got)
				}
			}
		})
	}
}

func TestPathTracing_DepthLimit(t *testing.T) {
	// Between two mirrors facing each other a ray bounces until the budget runs out
	camera := geometry.NewCamera(geometry.CameraConfig{
		Position: core.NewVec3(0, 0, 0), LookAt: core.NewVec3(0, 0, -1), Up: core.NewVec3(0, 1, 0), VFov: 40, AspectRatio: 1,
	})
	s := scene.New(camera, nil)
	s.SkyBox = skybox.NewUniformCubemap(s.Textures.MustAdd("sky", texture.NewSolid(skyColor)))
	mirror := s.Materials.MustAdd("mirror", material.NewMetal(s.Textures.MustAdd("white", texture.NewSolid(core.Splat(1))), 0))
	s.AddItem(s.Geometries.MustAdd("front", geometry.NewPlane(core.NewVec3(0, 0, -1), core.NewVec3(5, 0, 0), core.NewVec3(0, 5, 0))), mirror)
	s.AddItem(s.Geometries.MustAdd("back", geometry.NewPlane(core.NewVec3(0, 0, 1), core.NewVec3(0, 5, 0), core.NewVec3(5, 0, 0))), mirror)

	pt := NewPathTracingIntegrator(8)
	got := pt.RayColor(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), s, core.NewSeededSampler(1))
	if got != (core.Vec3{}) {
		t.Errorf("Expected black after exhausting bounces, got %v", got)
	}
}

// stubIntegrator returns a fixed sequence of colors and records the rays it saw
type stubIntegrator struct {
	colors []core.Vec3
	rays   []core.Ray
}

func (s *stubIntegrator) RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Vec3 {
	color := s.colors[len(s.rays)%len(s.colors)]
	s.rays = append(s.rays, ray)
	return color
}

func TestEstimatePixel_NonFiniteIsBlack(t *testing.T) {
	s := createTestScene(func(s *scene.Scene) material.Material { return material.NewLambertian(gray(s)) })
	stub := &stubIntegrator{colors: []core.Vec3{
		core.Splat(1),
		core.NewVec3(math.NaN(), 0, 0),
		core.Splat(1),
		core.NewVec3(math.Inf(1), 1, 1),
	}}

	got := EstimatePixel(stub, s, 0, 0, 4, 4, 4, core.NewSeededSampler(3))
	if got.Subtract(core.Splat(0.5)).Length() > 1e-12 {
		t.Errorf("Expected (0.5,0.5,0.5), got %v", got)
	}
	if len(stub.rays) != 4 {
		t.Errorf("Expected 4 samples, got %d", len(stub.rays))
	}
}

func TestEstimatePixel_TopRowFirst(t *testing.T) {
	s := createTestScene(func(s *scene.Scene) material.Material { return material.NewLambertian(gray(s)) })

	top := &stubIntegrator{colors: []core.Vec3{{}}}
	EstimatePixel(top, s, 0, 0, 2, 2, 16, core.NewSeededSampler(5))
	bottom := &stubIntegrator{colors: []core.Vec3{{}}}
	EstimatePixel(bottom, s, 1, 1, 2, 2, 16, core.NewSeededSampler(5))

	for _, ray := range top.rays {
		if ray.Direction.Y < 0 || ray.Direction.X > 0 {
			t.Fatalf("Pixel (0,0) should sample the upper-left quadrant, got %v", ray.Direction)
		}
	}
	for _, ray := range bottom.rays {
		if ray.Direction.Y > 0 || ray.Direction.X < 0 {
			t.Fatalf("Pixel (1,1) should sample the lower-right quadrant, got %v", ray.Direction)
		}
	}
}

func TestEstimatePixel_ZeroSamples(t *testing.T) {
	s := createTestScene(func(s *scene.Scene) material.Material { return material.NewLambertian(gray(s)) })
	stub := &stubIntegrator{colors: []core.Vec3{core.Splat(1)}}

	if got := EstimatePixel(stub, s, 0, 0, 1, 1, 0, core.NewSeededSampler(1)); got != (core.Vec3{}) {
		t.Errorf("Expected black for zero samples, got %v", got)
	}
}
