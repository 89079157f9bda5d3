package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// parallelEpsilon rejects rays that run (nearly) along the plane
const parallelEpsilon = 0.001

// Plane represents a finite parallelogram centered at Center.
// U and V are half-extent vectors; the surface spans Center ± U ± V.
type Plane struct {
	Center core.Vec3
	U      core.Vec3
	V      core.Vec3
}

// NewPlane creates a new plane
func NewPlane(center, u, v core.Vec3) *Plane {
	return &Plane{Center: center, U: u, V: v}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	normal := p.U.Cross(p.V)

	denominator := ray.Direction.Dot(normal)
	if !(math.Abs(denominator) >= parallelEpsilon) {
		return HitInfo{}, false
	}

	t := p.Center.Subtract(ray.Origin).Dot(normal) / denominator
	if !(t >= tMin && t <= tMax) {
		return HitInfo{}, false
	}

	point := ray.At(t)
	sep := point.Subtract(p.Center)

	// Projections relative to the squared half extents lie in [-1, 1] on the surface
	uLen2 := p.U.LengthSquared()
	vLen2 := p.V.LengthSquared()
	su := p.U.Dot(sep) / uLen2
	sv := p.V.Dot(sep) / vLen2
	if !(math.Abs(su) <= 1 && math.Abs(sv) <= 1) {
		return HitInfo{}, false
	}

	return HitInfo{
		T:     t,
		U:     (su + 1) / 2,
		V:     (1 - sv) / 2,
		Point: point,
		Frame: core.NewTBN(p.U, normal),
	}, true
}

// BoundingBox returns the box around the four corners
func (p *Plane) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		p.Center.Add(p.U).Add(p.V),
		p.Center.Add(p.U).Subtract(p.V),
		p.Center.Subtract(p.U).Add(p.V),
		p.Center.Subtract(p.U).Subtract(p.V),
	)
}

func (*Plane) isGeometry() {}
