package seed

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCalculate(t *testing.T) {
	red := solid(20, 10, color.RGBA{R: 255, A: 255})
	manual := int64(42)

	tests := []struct {
		name    string
		img     image.Image
		source  string
		cfg     Config
		want    *int64
		wantErr bool
	}{
		{name: "content", img: red, cfg: Config{Mode: ModeContent}},
		{name: "empty mode is content", img: red, cfg: Config{}},
		{name: "content without image", cfg: Config{Mode: ModeContent}, wantErr: true},
		{name: "filepath", source: "photo.png", cfg: Config{Mode: ModeFilepath}},
		{name: "filepath without path", cfg: Config{Mode: ModeFilepath}, wantErr: true},
		{name: "manual", cfg: Config{Mode: ModeManual, Value: &manual}, want: &manual},
		{name: "manual without value", cfg: Config{Mode: ModeManual}, wantErr: true},
		{name: "random", cfg: Config{Mode: ModeRandom}},
		{name: "unknown", cfg: Config{Mode: "lunar"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.img, tt.source, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Calculate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != nil && got != *tt.want {
				t.Errorf("Calculate() = %d, want %d", got, *tt.want)
			}
		})
	}
}

func TestFromContentDeterministic(t *testing.T) {
	a := solid(30, 30, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	b := solid(30, 30, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	c := solid(30, 30, color.RGBA{R: 10, G: 20, B: 31, A: 255})
	d := solid(30, 31, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if FromContent(a) != FromContent(b) {
		t.Error("identical images produced different seeds")
	}
	if FromContent(a) == FromContent(c) {
		t.Error("different pixels produced the same seed")
	}
	if FromContent(a) == FromContent(d) {
		t.Error("different sizes produced the same seed")
	}
}

func TestFromPath(t *testing.T) {
	if FromPath("a.png") != FromPath("./a.png") {
		t.Error("relative forms of the same path produced different seeds")
	}
	if FromPath("a.png") == FromPath("b.png") {
		t.Error("different paths produced the same seed")
	}
	url := "https://example.com/a.png"
	if FromPath(url) != FromPath(url) {
		t.Error("URL seed is not stable")
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		got, err := ParseMode(string(m))
		if err != nil {
			t.Errorf("ParseMode(%q) error = %v", m, err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %q", m, got)
		}
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}
