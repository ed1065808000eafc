package colour

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	pixels "github.com/jmylchreest/colourskim/internal/image"
	"github.com/jmylchreest/colourskim/internal/kmeans"
)

// Selection decides which colour stands for a cluster.
type Selection string

const (
	// SelectionAverage uses the cluster centroid.
	SelectionAverage Selection = "average"
	// SelectionSampled uses the member closest to the centroid, so every
	// palette colour occurs in the image.
	SelectionSampled Selection = "sampled"
)

// ParseSelection converts a name to a Selection. An empty name means
// average.
func ParseSelection(name string) (Selection, error) {
	switch Selection(name) {
	case SelectionAverage, "":
		return SelectionAverage, nil
	case SelectionSampled:
		return SelectionSampled, nil
	default:
		return "", fmt.Errorf("unknown colour selection: %s (valid: average, sampled)", name)
	}
}

// MaxPaletteSize bounds the number of colours that may be requested.
const MaxPaletteSize = 256

// PaletteSize is either a fixed colour count or a range to pick the best
// count from.
type PaletteSize struct {
	Min, Max int
}

// Fixed returns a PaletteSize of exactly n colours.
func Fixed(n int) PaletteSize { return PaletteSize{Min: n, Max: n} }

// Auto returns a PaletteSize that picks between lo and hi colours.
func Auto(lo, hi int) PaletteSize { return PaletteSize{Min: lo, Max: hi} }

// IsAuto reports whether the size is a range.
func (s PaletteSize) IsAuto() bool { return s.Min != s.Max }

func (s PaletteSize) String() string {
	if s.IsAuto() {
		return fmt.Sprintf("%d-%d", s.Min, s.Max)
	}
	return strconv.Itoa(s.Min)
}

// Validate checks 1 <= Min <= Max <= MaxPaletteSize.
func (s PaletteSize) Validate() error {
	if s.Min < 1 || s.Max < s.Min || s.Max > MaxPaletteSize {
		return fmt.Errorf("invalid palette size %s (must be within 1-%d)", s, MaxPaletteSize)
	}
	return nil
}

// ParsePaletteSize parses "6" or "3-8".
func ParsePaletteSize(s string) (PaletteSize, error) {
	lo, hi, isRange := strings.Cut(strings.TrimSpace(s), "-")
	first, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return PaletteSize{}, fmt.Errorf("invalid palette size %q: %w", s, err)
	}
	size := Fixed(first)
	if isRange {
		last, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return PaletteSize{}, fmt.Errorf("invalid palette size %q: %w", s, err)
		}
		size = Auto(first, last)
	}
	if err := size.Validate(); err != nil {
		return PaletteSize{}, err
	}
	return size, nil
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	Algorithm     kmeans.Algorithm
	Space         Space
	Size          PaletteSize
	Selection     Selection
	Criterion     kmeans.Criterion
	Resolution    float64
	MaxPoints     int
	SampleMethod  pixels.SampleMethod
	MaxIterations int
	Parallelism   int
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:     kmeans.MacQueen{Init: kmeans.KMeansPlusPlus{}},
		Space:         SpaceOkLab,
		Size:          Fixed(6),
		Selection:     SelectionSampled,
		Criterion:     kmeans.CriterionElbow,
		Resolution:    1,
		MaxPoints:     1000 * 1000,
		SampleMethod:  pixels.SampleStride,
		MaxIterations: 1000,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.Algorithm == nil {
		return fmt.Errorf("algorithm is required")
	}
	if _, err := ParseSpace(string(c.Space)); err != nil {
		return err
	}
	if err := c.Size.Validate(); err != nil {
		return err
	}
	if _, err := ParseSelection(string(c.Selection)); err != nil {
		return err
	}
	if _, err := kmeans.ParseCriterion(string(c.Criterion)); err != nil {
		return err
	}
	if !(c.Resolution > 0 && c.Resolution <= 1) {
		return fmt.Errorf("resolution must be in (0, 1], got %v", c.Resolution)
	}
	if c.MaxPoints < 1 {
		return fmt.Errorf("max points must be at least 1, got %d", c.MaxPoints)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max iterations cannot be negative, got %d", c.MaxIterations)
	}
	return nil
}

// Extractor builds palettes from images.
type Extractor struct {
	cfg    ExtractorConfig
	logger hclog.Logger
}

// NewExtractor validates cfg and returns an Extractor. A nil logger
// disables logging.
func NewExtractor(cfg ExtractorConfig, logger hclog.Logger) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extractor config: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{cfg: cfg, logger: logger}, nil
}

// Extract samples img, clusters the samples and returns the palette, most
// prevalent colour first. The palette may hold fewer colours than
// requested when clusters collapse or the image has few distinct colours.
func (e *Extractor) Extract(ctx context.Context, img image.Image, seed int64) (*Palette, error) {
	start := time.Now()
	points, err := pixels.Sample(img, pixels.SampleOptions{
		Fraction:  e.cfg.Resolution,
		MaxPoints: e.cfg.MaxPoints,
		Method:    e.cfg.SampleMethod,
	}, e.cfg.Space.ToPoint)
	if err != nil {
		return nil, fmt.Errorf("failed to sample image: %w", err)
	}
	e.logger.Debug("sampled image", "points", len(points), "space", e.cfg.Space, "duration", time.Since(start))

	// A palette cannot have more colours than there are points.
	kMin := min(e.cfg.Size.Min, len(points))
	kMax := min(e.cfg.Size.Max, len(points))
	if kMax < e.cfg.Size.Max {
		e.logger.Warn("fewer points than requested colours", "points", len(points), "requested", e.cfg.Size.String())
	}

	sweep, err := kmeans.Sweep(ctx, e.cfg.Algorithm, kMin, kMax, points, kmeans.SweepOptions{
		Seed:        seed,
		Parallelism: e.cfg.Parallelism,
		Criterion:   e.cfg.Criterion,
		Options: []kmeans.Option{
			kmeans.WithLogger(e.logger.Named("kmeans")),
			kmeans.WithMaxIterations(e.cfg.MaxIterations),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cluster colours: %w", err)
	}
	if kMin != kMax {
		e.logger.Debug("picked palette size", "k", sweep.K, "range", fmt.Sprintf("%d-%d", kMin, kMax), "criterion", e.cfg.Criterion)
	}
	if sweep.Best.Degenerate() {
		e.logger.Debug("clusters collapsed", "k", sweep.K, "colours", sweep.Best.Len())
	}

	palette := e.paletteFrom(sweep.Best)
	e.logger.Debug("extracted palette", "colours", palette.Len(), "duration", time.Since(start))
	return palette, nil
}

func (e *Extractor) paletteFrom(r *kmeans.Result) *Palette {
	prevalences := r.Prevalences()
	p := &Palette{K: r.K, Space: e.cfg.Space}
	for i, c := range r.Clusters() {
		point := c.Centroid
		if e.cfg.Selection == SelectionSampled {
			point = c.Representative()
		}
		p.Colours = append(p.Colours, PaletteColour{
			Colour:     e.cfg.Space.FromPoint(point),
			Prevalence: prevalences[i],
		})
	}
	return p
}
