package image

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/colourskim/internal/kmeans"
)

func grey(c color.Color) kmeans.Point {
	r, g, b, _ := c.RGBA()
	return kmeans.Point{float64(r >> 8), float64(g >> 8), float64(b >> 8)}
}

// gradient returns a w x h image whose red channel is the pixel index.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(y*w + x), A: 255})
		}
	}
	return img
}

func TestPointCount(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		opts SampleOptions
		want int
	}{
		{name: "full resolution", w: 10, h: 10, opts: SampleOptions{Fraction: 1, MaxPoints: 1000}, want: 100},
		{name: "half resolution is a quarter", w: 10, h: 10, opts: SampleOptions{Fraction: 0.5, MaxPoints: 1000}, want: 25},
		{name: "capped", w: 100, h: 100, opts: SampleOptions{Fraction: 1, MaxPoints: 500}, want: 500},
		{name: "never zero", w: 3, h: 3, opts: SampleOptions{Fraction: 0.01, MaxPoints: 10}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointCount(tt.w, tt.h, tt.opts); got != tt.want {
				t.Errorf("PointCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSampleStride(t *testing.T) {
	img := gradient(10, 10)

	points, err := Sample(img, SampleOptions{Fraction: 1, MaxPoints: 1000}, grey)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("Sample() returned %d points, want 100", len(points))
	}
	for i, p := range points {
		if p[0] != float64(i) {
			t.Fatalf("point %d = %v, want red %d", i, p, i)
		}
	}

	points, err = Sample(img, SampleOptions{Fraction: 1, MaxPoints: 4}, grey)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	want := []float64{0, 25, 50, 75}
	for i, p := range points {
		if p[0] != want[i] {
			t.Errorf("point %d red = %v, want %v", i, p[0], want[i])
		}
	}
}

func TestSampleOffsetBounds(t *testing.T) {
	img := gradient(4, 4).SubImage(image.Rect(2, 2, 4, 4))
	points, err := Sample(img, SampleOptions{Fraction: 1, MaxPoints: 10}, grey)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	want := []float64{10, 11, 14, 15}
	if len(points) != len(want) {
		t.Fatalf("Sample() returned %d points, want %d", len(points), len(want))
	}
	for i, p := range points {
		if p[0] != want[i] {
			t.Errorf("point %d red = %v, want %v", i, p[0], want[i])
		}
	}
}

func TestSampleResize(t *testing.T) {
	img := gradient(16, 8)
	tests := []struct {
		name string
		opts SampleOptions
		want int
	}{
		{name: "half", opts: SampleOptions{Fraction: 0.5, MaxPoints: 1000, Method: SampleResize}, want: 32},
		{name: "capped", opts: SampleOptions{Fraction: 1, MaxPoints: 32, Method: SampleResize}, want: 32},
		{name: "tiny cap", opts: SampleOptions{Fraction: 1, MaxPoints: 1, Method: SampleResize}, want: 1},
		{name: "area half", opts: SampleOptions{Fraction: 0.5, MaxPoints: 1000, Method: SampleArea}, want: 32},
		{name: "area full", opts: SampleOptions{Fraction: 1, MaxPoints: 1000, Method: SampleArea}, want: 128},
		{name: "area capped", opts: SampleOptions{Fraction: 1, MaxPoints: 8, Method: SampleArea}, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := Sample(img, tt.opts, grey)
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if len(points) != tt.want {
				t.Errorf("Sample() returned %d points, want %d", len(points), tt.want)
			}
		})
	}
}

func TestSampleAreaAverages(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{A: 255})
	img.Set(1, 1, color.NRGBA{A: 255})

	points, err := Sample(img, SampleOptions{Fraction: 0.5, MaxPoints: 10, Method: SampleArea}, grey)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("Sample() returned %d points, want 1", len(points))
	}
	if points[0][0] < 120 || points[0][0] > 135 {
		t.Errorf("averaged red = %v, want about 128", points[0][0])
	}
}

func TestSampleSkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 200, A: 255})
	points, err := Sample(img, SampleOptions{Fraction: 1, MaxPoints: 10}, grey)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(points) != 1 {
		t.Errorf("Sample() returned %d points, want 1", len(points))
	}

	_, err = Sample(image.NewNRGBA(image.Rect(0, 0, 2, 2)), SampleOptions{Fraction: 1, MaxPoints: 10}, grey)
	if !errors.Is(err, ErrNoPixels) {
		t.Errorf("Sample() error = %v, want ErrNoPixels", err)
	}
}

func TestSampleInvalid(t *testing.T) {
	img := gradient(4, 4)
	tests := []struct {
		name string
		img  image.Image
		opts SampleOptions
	}{
		{name: "nil image", img: nil, opts: SampleOptions{Fraction: 1, MaxPoints: 1}},
		{name: "zero fraction", img: img, opts: SampleOptions{Fraction: 0, MaxPoints: 1}},
		{name: "fraction above one", img: img, opts: SampleOptions{Fraction: 1.5, MaxPoints: 1}},
		{name: "zero max points", img: img, opts: SampleOptions{Fraction: 1, MaxPoints: 0}},
		{name: "unknown method", img: img, opts: SampleOptions{Fraction: 1, MaxPoints: 1, Method: "mosaic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(tt.img, tt.opts, grey)
			if !errors.Is(err, kmeans.ErrInvalidArgument) {
				t.Errorf("Sample() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestParseSampleMethod(t *testing.T) {
	for _, name := range []string{"", "stride", "resize", "area"} {
		if _, err := ParseSampleMethod(name); err != nil {
			t.Errorf("ParseSampleMethod(%q) error = %v", name, err)
		}
	}
	if _, err := ParseSampleMethod("mosaic"); err == nil {
		t.Error("ParseSampleMethod accepted an unknown method")
	}
}
