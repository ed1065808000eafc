// Package colour turns clustering results into colour palettes.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteColour is one palette entry and the share of sampled pixels it
// stands for.
type PaletteColour struct {
	Colour     colorful.Color
	Prevalence float64
}

// RGB returns the colour clamped to the sRGB gamut.
func (pc PaletteColour) RGB() RGB {
	r, g, b := pc.Colour.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Palette is an ordered set of colours, most prevalent first.
type Palette struct {
	Colours []PaletteColour
	// K is the cluster count the palette was built with. It can exceed
	// len(Colours) when clusters collapsed.
	K     int
	Space Space
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// ToHex returns the hex code of every colour.
func (p *Palette) ToHex() []string {
	out := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		out[i] = c.RGB().Hex()
	}
	return out
}

// ToRGBSlice returns every colour as RGB.
func (p *Palette) ToRGBSlice() []RGB {
	out := make([]RGB, len(p.Colours))
	for i, c := range p.Colours {
		out[i] = c.RGB()
	}
	return out
}

// ColourJSON is a palette entry in JSON output.
type ColourJSON struct {
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	Prevalence float64 `json:"prevalence"`
}

// PaletteJSON is the palette in JSON output.
type PaletteJSON struct {
	Count   int          `json:"count"`
	K       int          `json:"k"`
	Space   Space        `json:"space"`
	Colours []ColourJSON `json:"colours"`
}

// ToJSON renders the palette as indented JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		rgb := c.RGB()
		colours[i] = ColourJSON{Hex: rgb.Hex(), RGB: rgb, Prevalence: c.Prevalence}
	}
	return json.MarshalIndent(PaletteJSON{
		Count:   len(p.Colours),
		K:       p.K,
		Space:   p.Space,
		Colours: colours,
	}, "", "  ")
}

// String returns a human-readable listing of the palette.
func (p *Palette) String() string {
	return p.StringWithPreview(false)
}

// StringWithPreview is String with an ANSI swatch in front of every colour.
func (p *Palette) StringWithPreview(preview bool) string {
	if len(p.Colours) == 0 {
		return "Empty palette\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colours (k=%d, %s):\n", len(p.Colours), p.K, p.Space)
	for i, c := range p.Colours {
		rgb := c.RGB()
		if preview {
			fmt.Fprintf(&sb, "  %s", ColourPreview(rgb, defaultWidth))
		}
		fmt.Fprintf(&sb, "  %2d: %s (%s) %5.1f%%\n", i+1, rgb.Hex(), rgb.String(), c.Prevalence*100)
	}
	return sb.String()
}

// Get returns the colour at index.
func (p *Palette) Get(index int) (PaletteColour, error) {
	if index < 0 || index >= len(p.Colours) {
		return PaletteColour{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Colours))
	}
	return p.Colours[index], nil
}

// All returns an iterator over the palette entries.
func (p *Palette) All() func(func(int, PaletteColour) bool) {
	return func(yield func(int, PaletteColour) bool) {
		for i, c := range p.Colours {
			if !yield(i, c) {
				return
			}
		}
	}
}
