package colour

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/colourskim/internal/kmeans"
)

// Space is a colour space in which pixels are clustered.
type Space string

const (
	// SpaceOkLab is perceptually uniform and the default.
	SpaceOkLab Space = "oklab"
	// SpaceOkLch is OkLab in polar form: lightness, chroma, hue in degrees.
	SpaceOkLch Space = "oklch"
	// SpaceCIELab is CIE L*a*b* relative to D65.
	SpaceCIELab Space = "cielab"
	// SpaceCIELch is CIE L*C*h (HCL) relative to D65.
	SpaceCIELch Space = "cielch"
	// SpaceCIELuv is CIE L*u*v* relative to D65.
	SpaceCIELuv Space = "cieluv"
	// SpaceXYZ is CIE 1931 XYZ.
	SpaceXYZ Space = "xyz"
	// SpaceSRGB is gamma-encoded sRGB in [0, 1].
	SpaceSRGB Space = "srgb"
	// SpaceLinearSRGB is linear-light sRGB in [0, 1].
	SpaceLinearSRGB Space = "linear-srgb"
)

// ValidSpaces returns every supported colour space.
func ValidSpaces() []Space {
	return []Space{SpaceOkLab, SpaceOkLch, SpaceCIELab, SpaceCIELch, SpaceCIELuv, SpaceXYZ, SpaceSRGB, SpaceLinearSRGB}
}

// ParseSpace converts a name to a Space. An empty name means OkLab.
func ParseSpace(name string) (Space, error) {
	if name == "" {
		return SpaceOkLab, nil
	}
	s := Space(name)
	if slices.Contains(ValidSpaces(), s) {
		return s, nil
	}
	return "", fmt.Errorf("unknown colour space: %s (valid: %v)", name, ValidSpaces())
}

// ToPoint converts c to its three components in s. Alpha is ignored.
func (s Space) ToPoint(c color.Color) kmeans.Point {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// Fully transparent; colorful refuses to un-premultiply it.
		cf = colorful.Color{}
	}
	return s.FromColorful(cf)
}

// FromColorful converts a colorful colour to its components in s.
func (s Space) FromColorful(c colorful.Color) kmeans.Point {
	switch s {
	case SpaceOkLch:
		l, a, b := okLab(c)
		return kmeans.Point{l, math.Hypot(a, b), hueDegrees(a, b)}
	case SpaceCIELab:
		l, a, b := c.Lab()
		return kmeans.Point{l, a, b}
	case SpaceCIELch:
		h, ch, l := c.Hcl()
		return kmeans.Point{l, ch, h}
	case SpaceCIELuv:
		l, u, v := c.Luv()
		return kmeans.Point{l, u, v}
	case SpaceXYZ:
		x, y, z := c.Xyz()
		return kmeans.Point{x, y, z}
	case SpaceSRGB:
		return kmeans.Point{c.R, c.G, c.B}
	case SpaceLinearSRGB:
		r, g, b := c.LinearRgb()
		return kmeans.Point{r, g, b}
	default:
		l, a, b := okLab(c)
		return kmeans.Point{l, a, b}
	}
}

// FromPoint converts components in s back to a colour. The result may lie
// outside the sRGB gamut; callers clamp it for display.
func (s Space) FromPoint(p kmeans.Point) colorful.Color {
	switch s {
	case SpaceOkLch:
		h := p[2] * math.Pi / 180
		return fromOkLab(p[0], p[1]*math.Cos(h), p[1]*math.Sin(h))
	case SpaceCIELab:
		return colorful.Lab(p[0], p[1], p[2])
	case SpaceCIELch:
		return colorful.Hcl(p[2], p[1], p[0])
	case SpaceCIELuv:
		return colorful.Luv(p[0], p[1], p[2])
	case SpaceXYZ:
		return colorful.Xyz(p[0], p[1], p[2])
	case SpaceSRGB:
		return colorful.Color{R: p[0], G: p[1], B: p[2]}
	case SpaceLinearSRGB:
		return colorful.LinearRgb(p[0], p[1], p[2])
	default:
		return fromOkLab(p[0], p[1], p[2])
	}
}

// OkLab matrices from Björn Ottosson's reference, applied to linear sRGB.
func okLab(c colorful.Color) (l, a, b float64) {
	r, g, bl := c.LinearRgb()
	lc := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*bl)
	mc := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*bl)
	sc := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*bl)
	return 0.2104542553*lc + 0.7936177850*mc - 0.0040720468*sc,
		1.9779984951*lc - 2.4285922050*mc + 0.4505937099*sc,
		0.0259040371*lc + 0.7827717662*mc - 0.8086757660*sc
}

func fromOkLab(l, a, b float64) colorful.Color {
	lc := l + 0.3963377774*a + 0.2158037573*b
	mc := l - 0.1055613458*a - 0.0638541728*b
	sc := l - 0.0894841775*a - 1.2914855480*b
	lc, mc, sc = lc*lc*lc, mc*mc*mc, sc*sc*sc
	return colorful.LinearRgb(
		4.0767416621*lc-3.3077115913*mc+0.2309699292*sc,
		-1.2684380046*lc+2.6097574011*mc-0.3413193965*sc,
		-0.0041960863*lc-0.7034186147*mc+1.7076147010*sc,
	)
}

func hueDegrees(a, b float64) float64 {
	h := math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}
