package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	"github.com/jmylchreest/colourskim/internal/kmeans"
)

// ErrNoPixels is returned when an image has no opaque pixel to sample.
var ErrNoPixels = errors.New("no opaque pixels to sample")

// SampleMethod selects how pixels are picked.
type SampleMethod string

const (
	// SampleStride reads evenly spaced pixels in row-major order.
	SampleStride SampleMethod = "stride"
	// SampleResize downscales the image and reads every pixel of the result.
	SampleResize SampleMethod = "resize"
	// SampleArea box-filters the image down so every point averages a block
	// of source pixels.
	SampleArea SampleMethod = "area"
)

// ParseSampleMethod converts a name to a SampleMethod. An empty name means
// stride.
func ParseSampleMethod(name string) (SampleMethod, error) {
	switch SampleMethod(name) {
	case SampleStride, "":
		return SampleStride, nil
	case SampleResize, SampleArea:
		return SampleMethod(name), nil
	default:
		return "", fmt.Errorf("unknown sample method: %s (valid: stride, resize, area): %w", name, kmeans.ErrInvalidArgument)
	}
}

// SampleOptions controls which pixels become points.
type SampleOptions struct {
	// Fraction is the linear resolution in (0, 1]. The share of pixels read
	// is its square.
	Fraction float64
	// MaxPoints caps the number of points.
	MaxPoints int
	Method    SampleMethod
}

// Sample converts a subset of the pixels of img into points. Fully
// transparent pixels are skipped, so fewer points than requested may come
// back.
func Sample(img image.Image, opts SampleOptions, convert func(color.Color) kmeans.Point) ([]kmeans.Point, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil: %w", kmeans.ErrInvalidArgument)
	}
	if !(opts.Fraction > 0 && opts.Fraction <= 1) {
		return nil, fmt.Errorf("fraction must be in (0, 1], got %v: %w", opts.Fraction, kmeans.ErrInvalidArgument)
	}
	if opts.MaxPoints < 1 {
		return nil, fmt.Errorf("max points must be at least 1, got %d: %w", opts.MaxPoints, kmeans.ErrInvalidArgument)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image is empty: %w", ErrNoPixels)
	}

	var points []kmeans.Point
	switch opts.Method {
	case SampleStride, "":
		points = sampleStride(img, opts, convert)
	case SampleResize:
		points = sampleResize(img, opts, convert)
	case SampleArea:
		points = sampleArea(img, opts, convert)
	default:
		return nil, fmt.Errorf("unknown sample method: %s: %w", opts.Method, kmeans.ErrInvalidArgument)
	}
	if len(points) == 0 {
		return nil, ErrNoPixels
	}
	return points, nil
}

// PointCount returns how many pixels the stride method reads from an image
// of the given size.
func PointCount(width, height int, opts SampleOptions) int {
	total := width * height
	count := int(math.Round(float64(total) * opts.Fraction * opts.Fraction))
	return max(1, min(count, opts.MaxPoints, total))
}

func sampleStride(img image.Image, opts SampleOptions, convert func(color.Color) kmeans.Point) []kmeans.Point {
	b := img.Bounds()
	w := b.Dx()
	total := w * b.Dy()
	count := PointCount(w, b.Dy(), opts)

	points := make([]kmeans.Point, 0, count)
	for i := range count {
		// round(i/count * total) in integer arithmetic
		index := (2*i*total + count) / (2 * count)
		c := img.At(b.Min.X+index%w, b.Min.Y+index/w)
		if opaque(c) {
			points = append(points, convert(c))
		}
	}
	return points
}

// targetSize scales the bounds of img by the fraction, shrinking further
// until the result holds at most MaxPoints pixels.
func targetSize(b image.Rectangle, opts SampleOptions) (int, int) {
	tw := max(1, int(math.Round(float64(b.Dx())*opts.Fraction)))
	th := max(1, int(math.Round(float64(b.Dy())*opts.Fraction)))
	if tw*th > opts.MaxPoints {
		s := math.Sqrt(float64(opts.MaxPoints) / float64(tw*th))
		tw = max(1, int(float64(tw)*s))
		th = max(1, int(float64(th)*s))
		if tw*th > opts.MaxPoints {
			th = min(th, opts.MaxPoints)
			tw = max(1, opts.MaxPoints/th)
		}
	}
	return tw, th
}

func sampleResize(img image.Image, opts SampleOptions, convert func(color.Color) kmeans.Point) []kmeans.Point {
	b := img.Bounds()
	tw, th := targetSize(b, opts)
	small := img
	if tw != b.Dx() || th != b.Dy() {
		small = resize.Resize(uint(tw), uint(th), img, resize.Bilinear) // #nosec G115 -- both are at least 1
	}
	return readAll(small, convert)
}

func sampleArea(img image.Image, opts SampleOptions, convert func(color.Color) kmeans.Point) []kmeans.Point {
	b := img.Bounds()
	tw, th := targetSize(b, opts)
	if tw == b.Dx() && th == b.Dy() {
		return readAll(img, convert)
	}
	g := gift.New(gift.Resize(tw, th, gift.BoxResampling))
	small := image.NewNRGBA(g.Bounds(b))
	g.Draw(small, img)
	return readAll(small, convert)
}

func readAll(img image.Image, convert func(color.Color) kmeans.Point) []kmeans.Point {
	b := img.Bounds()
	points := make([]kmeans.Point, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.At(x, y); opaque(c) {
				points = append(points, convert(c))
			}
		}
	}
	return points
}

func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a > 0
}
