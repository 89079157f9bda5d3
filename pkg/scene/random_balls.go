package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// NewRandomBallsScene creates a 12x12 field of small random spheres around three large ones.
// The same seed always produces the same scene.
func NewRandomBallsScene(seed int64, aspectRatio float64) *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Position:    core.NewVec3(3.0, 1.5, 8.0),
		LookAt:      core.NewVec3(0.5, 0.0, -1.0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        30.0,
		AspectRatio: aspectRatio,
	})

	s := New(camera, nil)
	s.SkyBox = addSkyGradient(s)
	s.Items = make([]Item, 0, 1+12*12+3)

	s.AddItem(
		s.Geometries.MustAdd("ground", geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000)),
		s.Materials.MustAdd("ground", material.NewLambertian(
			s.Textures.MustAdd("gray", texture.NewSolid(core.Splat(0.5))))),
	)

	random := rand.New(rand.NewSource(seed))
	for a := -6; a < 6; a++ {
		for b := -6; b < 6; b++ {
			offset := core.NewVec3(random.Float64(), 0, random.Float64()).Multiply(0.6)
			center := core.NewVec3(float64(a), 0.2, float64(b)).Add(offset)

			var mat material.Material
			switch chooser := random.Float64(); {
			case chooser < 0.8:
				albedo := core.NewVec3(
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
					random.Float64()*random.Float64(),
				)
				mat = material.NewLambertian(
					s.Textures.MustAdd(fmt.Sprintf("rand_tex_%d_%d", a, b), texture.NewSolid(albedo)))
			case chooser < 0.95:
				albedo := core.NewVec3(
					0.5*(random.Float64()+1),
					0.5*(random.Float64()+1),
					0.5*(random.Float64()+1),
				)
				tex := s.Textures.MustAdd(fmt.Sprintf("rand_tex_%d_%d", a, b), texture.NewSolid(albedo))
				mat = material.NewMetal(tex, 0.5*random.Float64())
			default:
				mat = material.NewDielectric(1.5)
			}

			s.AddItem(
				s.Geometries.MustAdd(fmt.Sprintf("rand_geo_%d_%d", a, b), geometry.NewSphere(center, 0.2)),
				s.Materials.MustAdd(fmt.Sprintf("rand_mat_%d_%d", a, b), mat),
			)
		}
	}

	s.AddItem(
		s.Geometries.MustAdd("lambertian_main", geometry.NewSphere(core.NewVec3(-1, 1, -1.5), 1)),
		s.Materials.MustAdd("lambertian_main", material.NewLambertian(
			s.Textures.MustAdd("lambertian_main", texture.NewSolid(core.NewVec3(0.4, 0.2, 0.1))))),
	)
	s.AddItem(
		s.Geometries.MustAdd("glass_main", geometry.NewSphere(core.NewVec3(0, 1, 0), 1)),
		s.Materials.MustAdd("glass_main", material.NewDielectric(1.5)),
	)
	s.AddItem(
		s.Geometries.MustAdd("metal_main", geometry.NewSphere(core.NewVec3(1, 1, 1.5), 1)),
		s.Materials.MustAdd("metal_main", material.NewMetal(
			s.Textures.MustAdd("metal_main", texture.NewSolid(core.NewVec3(0.7, 0.6, 0.5))), 0.0)),
	)

	return s
}
