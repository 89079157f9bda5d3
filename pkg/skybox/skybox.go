// Package skybox colors rays that escape the scene.
package skybox

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/cache"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/texture"
)

// SkyBox returns the background color seen along an escaping direction.
// The set is closed: Cubemap and Equirectangular.
type SkyBox interface {
	Color(textures *cache.Cache[texture.Texture], direction core.Vec3) core.Vec3

	// TextureIndices lists every texture index the sky box refers to
	TextureIndices() []int

	isSkyBox()
}

// Face identifies one side of a cube map
type Face int

const (
	FaceUp Face = iota
	FaceDown
	FaceLeft
	FaceRight
	FaceFront
	FaceBack
)

var faceNames = [...]string{"up", "down", "left", "right", "front", "back"}

func (f Face) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "unknown"
	}
	return faceNames[f]
}

// Cubemap maps each of the six axis-aligned directions to its own texture.
// Front looks down -Z, right down +X and up along +Y.
type Cubemap struct {
	Up, Down, Left, Right, Front, Back int // Texture indices
}

// NewUniformCubemap uses the same texture on every face
func NewUniformCubemap(textureIdx int) *Cubemap {
	return &Cubemap{
		Up:    textureIdx,
		Down:  textureIdx,
		Left:  textureIdx,
		Right: textureIdx,
		Front: textureIdx,
		Back:  textureIdx,
	}
}

// Color samples the face the direction points at
func (c *Cubemap) Color(textures *cache.Cache[texture.Texture], direction core.Vec3) core.Vec3 {
	face := dominantFace(direction)
	u, v := faceUV(face, direction)
	return textures.Get(c.index(face)).Color(u, v)
}

func (c *Cubemap) index(face Face) int {
	switch face {
	case FaceUp:
		return c.Up
	case FaceDown:
		return c.Down
	case FaceLeft:
		return c.Left
	case FaceRight:
		return c.Right
	case FaceFront:
		return c.Front
	default:
		return c.Back
	}
}

// TextureIndices returns the face textures in Face order
func (c *Cubemap) TextureIndices() []int {
	return []int{c.Up, c.Down, c.Left, c.Right, c.Front, c.Back}
}

func (*Cubemap) isSkyBox() {}

// Equirectangular wraps a single latitude/longitude texture around the scene
type Equirectangular struct {
	Texture int // Texture index
}

// NewEquirectangular creates an equirectangular sky box
func NewEquirectangular(textureIdx int) *Equirectangular {
	return &Equirectangular{Texture: textureIdx}
}

// Color samples the texture with the same UV mapping spheres use
func (e *Equirectangular) Color(textures *cache.Cache[texture.Texture], direction core.Vec3) core.Vec3 {
	u, v := geometry.SphereUV(direction.Normalize())
	return textures.Get(e.Texture).Color(u, v)
}

// TextureIndices returns the single texture index
func (e *Equirectangular) TextureIndices() []int {
	return []int{e.Texture}
}

func (*Equirectangular) isSkyBox() {}

// dominantFace picks the face for the axis with the largest absolute component.
// Ties fall through X, then Y, to Z.
func dominantFace(d core.Vec3) Face {
	ax, ay, az := math.Abs(d.X), math.Abs(d.Y), math.Abs(d.Z)

	if ax > ay {
		if ax > az {
			if math.Signbit(d.X) {
				return FaceLeft
			}
			return FaceRight
		}
	} else if ay > az {
		if math.Signbit(d.Y) {
			return FaceDown
		}
		return FaceUp
	}

	if math.Signbit(d.Z) {
		return FaceFront
	}
	return FaceBack
}

// faceUV projects the two minor components onto the face and maps
// their angle in [-pi/4, pi/4] to [0, 1]. v grows downwards on the side faces.
func faceUV(face Face, d core.Vec3) (float64, float64) {
	x, y, z := d.X, d.Y, d.Z

	var tanU, tanV float64
	switch face {
	case FaceUp:
		tanU, tanV = x/y, -z/y
	case FaceDown:
		tanU, tanV = x/-y, z/-y
	case FaceLeft:
		tanU, tanV = -z/-x, -y/-x
	case FaceRight:
		tanU, tanV = z/x, -y/x
	case FaceFront:
		tanU, tanV = x/-z, -y/-z
	default:
		tanU, tanV = -x/z, -y/z
	}

	return remap(math.Atan(tanU), -math.Pi/4, math.Pi/4, 0, 1),
		remap(math.Atan(tanV), -math.Pi/4, math.Pi/4, 0, 1)
}

// remap linearly maps val from [curMin, curMax] to [newMin, newMax]
func remap(val, curMin, curMax, newMin, newMax float64) float64 {
	percent := (val - curMin) / (curMax - curMin)
	return newMin + percent*(newMax-newMin)
}
