package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CameraConfig describes where a camera sits and what it sees
type CameraConfig struct {
	Position    core.Vec3 // Eye position
	LookAt      core.Vec3 // Point the camera looks at
	Up          core.Vec3 // Approximate up direction
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Width / height
}

// Camera generates rays for rendering
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera builds the orthonormal view basis for config
func NewCamera(config CameraConfig) *Camera {
	theta := config.VFov * math.Pi / 180.0
	halfHeight := math.Tan(theta / 2)
	halfWidth := config.AspectRatio * halfHeight

	w := config.Position.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	origin := config.Position
	lowerLeftCorner := origin.
		Subtract(u.Multiply(halfWidth)).
		Subtract(v.Multiply(halfHeight)).
		Subtract(w)

	return &Camera{
		config:          config,
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      u.Multiply(2 * halfWidth),
		vertical:        v.Multiply(2 * halfHeight),
	}
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// (0, 0) is the bottom-left corner of the view.
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
