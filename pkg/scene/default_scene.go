package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/skybox"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(aspectRatio float64) *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Position:    core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt:      core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:          core.NewVec3(0, 1, 0),    // Standard up direction
		VFov:        40.0,
		AspectRatio: aspectRatio,
	})

	s := New(camera, nil)
	s.SkyBox = addSkyGradient(s)

	// Create textures
	green := s.Textures.MustAdd("green", texture.NewSolid(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6)))
	checker := s.Textures.MustAdd("checker", texture.NewCheckerboard(64, 64, 8,
		core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.2, 0.3, 0.1)))
	red := s.Textures.MustAdd("red", texture.NewSolid(core.NewVec3(0.65, 0.25, 0.2)))
	blue := s.Textures.MustAdd("blue", texture.NewSolid(core.NewVec3(0.1, 0.2, 0.5)))
	silver := s.Textures.MustAdd("silver", texture.NewSolid(core.NewVec3(0.8, 0.8, 0.8)))
	gold := s.Textures.MustAdd("gold", texture.NewLinearGradient(
		core.NewVec3(0.8, 0.6, 0.2), core.NewVec3(0.9, 0.7, 0.3)))
	flat := s.Textures.MustAdd("flat_normal", texture.NewFlatNormalMap(4, 4))
	white := s.Textures.MustAdd("white", texture.NewSolid(core.NewVec3(1, 1, 1)))

	// Create materials
	lambertianGround := s.Materials.MustAdd("ground", material.NewLambertian(checker))
	lambertianGreen := s.Materials.MustAdd("green", material.NewLambertian(green))
	lambertianBlue := s.Materials.MustAdd("blue", material.NewLambertian(blue))
	redLambertian := material.NewLambertian(red)
	redLambertian.NormalMap = flat
	lambertianRed := s.Materials.MustAdd("red", redLambertian)
	metalSilver := s.Materials.MustAdd("silver", material.NewMetal(silver, 0.0))
	metalGold := s.Materials.MustAdd("gold", material.NewMetal(gold, 0.3))
	materialGlass := s.Materials.MustAdd("glass", material.NewDielectric(1.5))
	sun := s.Materials.MustAdd("sun", material.NewLight(white, core.NewVec3(15.0, 14.0, 13.0)))

	// Create geometry
	ground := s.Geometries.MustAdd("ground", geometry.NewPlane(
		core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 4), core.NewVec3(4, 0, 0)))
	horizon := s.Geometries.MustAdd("horizon", geometry.NewSphere(core.NewVec3(0, -1000.01, 0), 1000))
	sphereCenter := s.Geometries.MustAdd("center", geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5))
	sphereLeft := s.Geometries.MustAdd("left", geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5))
	sphereRight := s.Geometries.MustAdd("right", geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5))
	solidGlassSphere := s.Geometries.MustAdd("solid_glass", geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25))

	// Hollow glass sphere with blue sphere inside; the negative radius flips the normal inward
	hollowGlassOuter := s.Geometries.MustAdd("hollow_outer", geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25))
	hollowGlassInner := s.Geometries.MustAdd("hollow_inner", geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), -0.24))
	hollowGlassCenter := s.Geometries.MustAdd("hollow_center", geometry.NewSphere(core.NewVec3(-0.5, 0.25, -0.5), 0.20))

	light := s.Geometries.MustAdd("sun", geometry.NewSphere(core.NewVec3(30, 30.5, 15), 10))

	s.AddItem(ground, lambertianGround)
	s.AddItem(horizon, lambertianGreen)
	s.AddItem(sphereCenter, lambertianRed)
	s.AddItem(sphereLeft, metalSilver)
	s.AddItem(sphereRight, metalGold)
	s.AddItem(solidGlassSphere, materialGlass)
	s.AddItem(hollowGlassOuter, materialGlass)
	s.AddItem(hollowGlassInner, materialGlass)
	s.AddItem(hollowGlassCenter, lambertianBlue)
	s.AddItem(light, sun)

	return s
}

// addSkyGradient registers a blue-sky cubemap: blue overhead, white below,
// with the side faces fading across their width
func addSkyGradient(s *Scene) *skybox.Cubemap {
	skyBlue := core.NewVec3(0.5, 0.7, 1.0)
	horizon := core.NewVec3(0.75, 0.85, 1.0)

	up := s.Textures.MustAdd("sky_up", texture.NewSolid(skyBlue))
	down := s.Textures.MustAdd("sky_down", texture.NewSolid(core.NewVec3(1, 1, 1)))
	side := s.Textures.MustAdd("sky_side", texture.NewLinearGradient(horizon, horizon.Lerp(skyBlue, 0.25)))

	return &skybox.Cubemap{
		Up:    up,
		Down:  down,
		Left:  side,
		Right: side,
		Front: side,
		Back:  side,
	}
}
