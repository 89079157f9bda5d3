package renderer

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/df07/go-pathtracer/pkg/core"
)

var _ pflag.Value = (*ToneMapper)(nil)

// ToneMapper compresses averaged HDR color into [0,1]
type ToneMapper int

const (
	// ToneMapClamp clamps every channel to [0,1]
	ToneMapClamp ToneMapper = iota
	// ToneMapUncharted applies John Hable's Uncharted 2 filmic curve
	ToneMapUncharted
)

var toneMapperNames = map[ToneMapper]string{
	ToneMapClamp:     "clamp",
	ToneMapUncharted: "uncharted",
}

// ParseToneMapper parses "clamp" or "uncharted", case-insensitively
func ParseToneMapper(s string) (ToneMapper, error) {
	for tm, name := range toneMapperNames {
		if strings.EqualFold(s, name) {
			return tm, nil
		}
	}
	return ToneMapClamp, fmt.Errorf("unknown tone mapper %q (want clamp or uncharted)", s)
}

// Map applies the tone curve to color
func (tm ToneMapper) Map(color core.Vec3) core.Vec3 {
	switch tm {
	case ToneMapUncharted:
		return unchartedToneMap(color)
	default:
		return color.Clamp(0, 1)
	}
}

// String implements fmt.Stringer and pflag.Value
func (tm ToneMapper) String() string {
	if name, ok := toneMapperNames[tm]; ok {
		return name
	}
	return fmt.Sprintf("ToneMapper(%d)", int(tm))
}

// Set implements pflag.Value
func (tm *ToneMapper) Set(s string) error {
	parsed, err := ParseToneMapper(s)
	if err != nil {
		return err
	}
	*tm = parsed
	return nil
}

// Type implements pflag.Value
func (tm *ToneMapper) Type() string {
	return "toneMapper"
}

// MarshalText implements encoding.TextMarshaler
func (tm ToneMapper) MarshalText() ([]byte, error) {
	name, ok := toneMapperNames[tm]
	if !ok {
		return nil, fmt.Errorf("unknown tone mapper %d", int(tm))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (tm *ToneMapper) UnmarshalText(text []byte) error {
	return tm.Set(string(text))
}

// Uncharted 2 curve constants
const (
	shoulderStrength = 0.15
	linearStrength   = 0.50
	linearAngle      = 0.10
	toeStrength      = 0.20
	toeNumerator     = 0.02
	toeDenominator   = 0.30
	exposureBias     = 2.0
	whitePoint       = 11.2
)

func unchartedPartial(x float64) float64 {
	a, b, c := shoulderStrength, linearStrength, linearAngle
	d, e, f := toeStrength, toeNumerator, toeDenominator
	return (x*(a*x+c*b)+d*e)/(x*(a*x+b)+d*f) - e/f
}

func unchartedToneMap(color core.Vec3) core.Vec3 {
	whiteScale := 1.0 / unchartedPartial(whitePoint)
	return core.NewVec3(
		unchartedPartial(color.X*exposureBias)*whiteScale,
		unchartedPartial(color.Y*exposureBias)*whiteScale,
		unchartedPartial(color.Z*exposureBias)*whiteScale,
	)
}
