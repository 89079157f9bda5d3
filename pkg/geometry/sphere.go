package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if !(discriminant > 0) {
		return HitInfo{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	for _, root := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		if !(tMin < root && root < tMax) {
			continue
		}

		point := ray.At(root)
		normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
		u, v := SphereUV(normal)
		return HitInfo{
			T:     root,
			U:     u,
			V:     v,
			Point: point,
			Frame: core.NewTBN(core.NewVec3(0, 1, 0).Cross(normal), normal),
		}, true
	}

	return HitInfo{}, false
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(math.Abs(s.Radius))
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

func (*Sphere) isGeometry() {}
