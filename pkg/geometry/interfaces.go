package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// HitInfo contains information about a ray-object intersection
type HitInfo struct {
	T     float64   // Parameter t along the ray
	U, V  float64   // Surface parametrization at the hit point
	Point core.Vec3 // Point of intersection
	Frame core.TBN  // Shading frame; Frame.N is the geometric normal
}

// Normal returns the geometric surface normal at the hit point
func (h HitInfo) Normal() core.Vec3 {
	return h.Frame.N
}

// Geometry is a surface that can be hit by rays.
// The set is closed: Sphere and Plane.
type Geometry interface {
	// Hit returns the nearest intersection with t in the valid range.
	// Non-finite intermediate values never produce a hit.
	Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool)
	BoundingBox() core.AABB

	isGeometry()
}

// SphereUV maps a unit normal to spherical texture coordinates.
// u=0 lies on -Z and grows counter-clockwise seen from above (-X 0.25, +Z 0.5, +X 0.75);
// v=0 is the +Y pole and v=1 the -Y pole.
func SphereUV(normal core.Vec3) (float64, float64) {
	u := (math.Atan2(normal.X, normal.Z) + math.Pi) / (2 * math.Pi)
	if u >= 1 {
		u -= 1
	}
	v := 1 - (normal.Y+1)/2
	return u, v
}
