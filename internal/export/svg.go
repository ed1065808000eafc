// Package export writes palettes to files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/jmylchreest/colourskim/internal/colour"
)

// SVGOptions describes the source image shown above the swatches.
type SVGOptions struct {
	// ImageHref is written as the href of the embedded image.
	ImageHref string
	Width     int
	Height    int
}

type svgRect struct {
	X, Y, Width, Height string
	Fill                string
}

type svgData struct {
	ViewBox                    string
	Href                       string
	Padding, ImgWidth, ImgHigh string
	Swatches                   []svgRect
}

var svgTemplate = template.Must(template.New("svg").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="100%" height="100%" viewBox="{{.ViewBox}}">
  <image href="{{.Href | html}}" x="{{.Padding}}" y="{{.Padding}}" width="{{.ImgWidth}}" height="{{.ImgHigh}}"/>
{{- range .Swatches}}
  <rect x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}" fill="{{.Fill}}"/>
{{- end}}
</svg>
`))

// WriteSVG renders the image with a strip of equal-width swatches under it.
// The strip is a tenth of the image height and everything is padded by 5%
// of the shorter image side.
func WriteSVG(w io.Writer, opts SVGOptions, palette *colour.Palette) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if palette == nil || palette.Len() == 0 {
		return fmt.Errorf("palette is empty")
	}

	width, height := float64(opts.Width), float64(opts.Height)
	stripHeight := height * 0.1
	padding := min(width, height) * 0.05
	swatchWidth := width / float64(palette.Len())

	data := svgData{
		ViewBox:  num(width+padding*2) + " " + num(height+stripHeight+padding*3),
		Href:     opts.ImageHref,
		Padding:  num(padding),
		ImgWidth: strconv.Itoa(opts.Width),
		ImgHigh:  strconv.Itoa(opts.Height),
	}
	for i, hex := range palette.ToHex() {
		data.Swatches = append(data.Swatches, svgRect{
			X:      num(float64(i)*swatchWidth + padding),
			Y:      num(height + padding*2),
			Width:  num(swatchWidth),
			Height: num(stripHeight),
			Fill:   hex,
		})
	}
	if err := svgTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render SVG: %w", err)
	}
	return nil
}

// WriteSVGFile writes the SVG for the image at imagePath into dir as
// <image name>.svg and returns the path written.
func WriteSVGFile(dir, imagePath string, opts SVGOptions, palette *colour.Palette) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 -- output directory chosen by the user
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	out := filepath.Join(dir, filepath.Base(imagePath)+".svg")
	f, err := os.Create(out) // #nosec G304 -- output path chosen by the user
	if err != nil {
		return "", fmt.Errorf("failed to create SVG file: %w", err)
	}
	if err := WriteSVG(f, opts, palette); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close SVG file: %w", err)
	}
	return out, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
