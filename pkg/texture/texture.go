package texture

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Texture provides spatially-varying colors over a surface parametrization.
// The set of textures is closed: Solid, LinearGradient and Image.
type Texture interface {
	// Color returns the color at the given UV coordinates
	Color(u, v float64) core.Vec3

	isTexture()
}

// Solid provides a uniform color
type Solid struct {
	Value core.Vec3
}

// NewSolid creates a new solid color texture
func NewSolid(color core.Vec3) *Solid {
	return &Solid{Value: color}
}

// Color returns the solid color regardless of UV
func (s *Solid) Color(u, v float64) core.Vec3 {
	return s.Value
}

func (*Solid) isTexture() {}

// LinearGradient blends From into To along the U axis
type LinearGradient struct {
	From core.Vec3
	To   core.Vec3
}

// NewLinearGradient creates a new gradient texture
func NewLinearGradient(from, to core.Vec3) *LinearGradient {
	return &LinearGradient{From: from, To: to}
}

// Color lerps from From (u=0) to To (u=1)
func (g *LinearGradient) Color(u, v float64) core.Vec3 {
	return g.From.Lerp(g.To, u)
}

func (*LinearGradient) isTexture() {}

// DecodeNormal reinterprets a color in [0,1]^3 as a tangent-space vector in [-1,1]^3
// and returns it as a unit normal in the scene space of frame
func DecodeNormal(color core.Vec3, frame core.TBN) core.Vec3 {
	tangentSpace := color.Multiply(2).Subtract(core.Splat(1))
	return frame.ToWorld(tangentSpace).Normalize()
}
