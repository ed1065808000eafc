package colour

import (
	"image/color"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestSpaceRoundTrip(t *testing.T) {
	colours := []colorful.Color{
		{R: 1, G: 0, B: 0},
		{R: 0.2, G: 0.6, B: 0.3},
		{R: 0.9, G: 0.85, B: 0.1},
		{R: 0.5, G: 0.5, B: 0.5},
		{R: 0, G: 0, B: 0},
		{R: 1, G: 1, B: 1},
	}
	for _, space := range ValidSpaces() {
		t.Run(string(space), func(t *testing.T) {
			for _, c := range colours {
				got := space.FromPoint(space.FromColorful(c))
				if math.Abs(got.R-c.R) > 1e-4 || math.Abs(got.G-c.G) > 1e-4 || math.Abs(got.B-c.B) > 1e-4 {
					t.Errorf("round trip of %v = %v", c, got)
				}
			}
		})
	}
}

func TestOkLabReference(t *testing.T) {
	tests := []struct {
		name    string
		c       colorful.Color
		l, a, b float64
	}{
		{name: "white", c: colorful.Color{R: 1, G: 1, B: 1}, l: 1, a: 0, b: 0},
		{name: "black", c: colorful.Color{}, l: 0, a: 0, b: 0},
		{name: "red", c: colorful.Color{R: 1}, l: 0.6279, a: 0.2249, b: 0.1258},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SpaceOkLab.FromColorful(tt.c)
			if math.Abs(p[0]-tt.l) > 1e-3 || math.Abs(p[1]-tt.a) > 1e-3 || math.Abs(p[2]-tt.b) > 1e-3 {
				t.Errorf("OkLab(%v) = %v, want [%v %v %v]", tt.c, p, tt.l, tt.a, tt.b)
			}
		})
	}
}

func TestOkLchHue(t *testing.T) {
	p := SpaceOkLch.FromColorful(colorful.Color{B: 1})
	// sRGB blue sits at roughly 264 degrees.
	if p[2] < 260 || p[2] > 268 {
		t.Errorf("blue hue = %v, want about 264", p[2])
	}
	if p[2] < 0 || p[2] >= 360 {
		t.Errorf("hue %v outside [0, 360)", p[2])
	}
}

func TestToPointTransparent(t *testing.T) {
	p := SpaceSRGB.ToPoint(color.NRGBA{R: 255, A: 0})
	if p[0] != 0 || p[1] != 0 || p[2] != 0 {
		t.Errorf("ToPoint(transparent) = %v, want black", p)
	}
	p = SpaceSRGB.ToPoint(color.NRGBA{R: 255, A: 255})
	if p[0] != 1 || p[1] != 0 || p[2] != 0 {
		t.Errorf("ToPoint(red) = %v", p)
	}
}

func TestParseSpace(t *testing.T) {
	tests := []struct {
		input   string
		want    Space
		wantErr bool
	}{
		{input: "", want: SpaceOkLab},
		{input: "oklab", want: SpaceOkLab},
		{input: "cielch", want: SpaceCIELch},
		{input: "linear-srgb", want: SpaceLinearSRGB},
		{input: "hsv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSpace(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSpace(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
