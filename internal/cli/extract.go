package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/colourskim/internal/colour"
	"github.com/jmylchreest/colourskim/internal/config"
	"github.com/jmylchreest/colourskim/internal/export"
	"github.com/jmylchreest/colourskim/internal/image"
	"github.com/jmylchreest/colourskim/internal/kmeans"
	"github.com/jmylchreest/colourskim/internal/seed"
	"github.com/jmylchreest/colourskim/internal/util/imagecache"
)

// extractOptions holds the extract command flags.
type extractOptions struct {
	colours       string
	algorithm     string
	initialiser   string
	space         string
	selection     string
	criterion     string
	resolution    float64
	maxPoints     int
	sampleMethod  string
	seedMode      string
	seed          int64
	maxIterations int
	parallelism   int

	format   string
	output   string
	svgDir   string
	preview  bool
	cache    bool
	cacheDir string
}

// formats lists the values accepted by --format.
var formats = []string{"hex", "rgb", "json", "table", "text"}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "extract <image|directory|url>...",
		Short: "Extract a colour palette from images",
		Long: `Extract the dominant colours of one or more images.

Directories are expanded to the images directly inside them, in name order.
HTTPS URLs are downloaded. Files ending in .xz are decompressed first.

Settings are read from the config file, then COLOURSKIM_* environment
variables, then flags; later sources win.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Six colours (default) from an image
  colourskim extract wallpaper.jpg

  # Let the elbow criterion pick between 3 and 10 colours
  colourskim extract -c 3-10 wallpaper.jpg

  # Hartigan-Wong on a quarter of the pixels, as JSON
  colourskim extract -a hartigan-wong --resolution 0.5 -f json wallpaper.png

  # Every image in a directory, with an SVG preview of each
  colourskim extract --svg ./palettes ~/Pictures/wallpapers

  # Average colours of each cluster in CIE L*a*b*
  colourskim extract --selection average --space cielab photo.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.colours, "colours", "c", defaults.Colours, "number of colours, or a range such as 3-8 to pick the best")
	flags.StringVarP(&opts.algorithm, "algorithm", "a", defaults.Algorithm, fmt.Sprintf("clustering algorithm (%s)", strings.Join(kmeans.AlgorithmNames(), ", ")))
	flags.StringVar(&opts.initialiser, "init", defaults.Init, fmt.Sprintf("centroid initialisation (%s)", strings.Join(kmeans.InitializerNames(), ", ")))
	flags.StringVar(&opts.space, "space", defaults.Space, fmt.Sprintf("colour space to cluster in (%s)", joinSpaces()))
	flags.StringVar(&opts.selection, "selection", defaults.Selection, "cluster colour: centroid average or closest sampled pixel (average, sampled)")
	flags.StringVar(&opts.criterion, "criterion", defaults.Criterion, "how to pick the colour count from a range (elbow, silhouette)")
	flags.Float64Var(&opts.resolution, "resolution", defaults.Resolution, "fraction of each image side to sample, in (0, 1]")
	flags.IntVar(&opts.maxPoints, "max-points", defaults.MaxPoints, "maximum number of pixels to sample")
	flags.StringVar(&opts.sampleMethod, "sample-method", defaults.SampleMethod, "pixel sampling method (stride, resize, area)")
	flags.StringVar(&opts.seedMode, "seed-mode", defaults.SeedMode, "seed source (content, filepath, manual, random)")
	flags.Int64Var(&opts.seed, "seed", 0, "seed value; implies --seed-mode manual")
	flags.IntVar(&opts.maxIterations, "max-iterations", defaults.MaxIterations, "iteration cap per clustering run (0 = unlimited)")
	flags.IntVar(&opts.parallelism, "parallel", defaults.Parallelism, "concurrent clustering runs when picking the colour count (0 = number of CPUs)")

	flags.StringVarP(&opts.format, "format", "f", "hex", fmt.Sprintf("output format (%s)", strings.Join(formats, ", ")))
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVar(&opts.svgDir, "svg", "", "also write <image>.svg previews into this directory")
	flags.BoolVar(&opts.preview, "preview", false, "show colour swatches when writing to a terminal")
	flags.BoolVar(&opts.cache, "cache", false, "keep downloaded images in the user cache directory and reuse them")
	flags.StringVar(&opts.cacheDir, "cache-dir", "", "cache downloaded images in this directory; implies --cache")

	return cmd
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string, opts *extractOptions) error {
	logger := newLogger(cmd)

	if !slices.Contains(formats, opts.format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", opts.format, strings.Join(formats, ", "))
	}

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	exCfg, seedCfg, err := buildExtractorConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	extractor, err := colour.NewExtractor(exCfg, logger.Named("extract"))
	if err != nil {
		return err
	}

	for _, arg := range args {
		if err := image.ValidateImagePath(arg); err != nil {
			return fmt.Errorf("invalid image path: %w", err)
		}
	}
	paths, err := image.ExpandPaths(args)
	if err != nil {
		return err
	}
	logger.Debug("resolved inputs", "images", len(paths), "algorithm", cfg.Algorithm, "init", cfg.Init, "colours", cfg.Colours, "space", cfg.Space)

	var out io.Writer = cmd.OutOrStdout()
	preview := opts.preview && isTerminal(out)
	if opts.output != "" {
		f, err := os.Create(opts.output) // #nosec G304 -- output path chosen by the user
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
		preview = false
	}

	loader := image.NewSmartLoader()
	if opts.cache || opts.cacheDir != "" {
		cache, err := imagecache.New(opts.cacheDir, image.MaxDecompressedSize)
		if err != nil {
			return err
		}
		loader.WithCache(cache)
		logger.Debug("caching downloads", "dir", cache.Dir())
	}
	var (
		results []sourcePalette
		failed  int
	)
	for _, path := range paths {
		palette, err := extractOne(cmd.Context(), loader, extractor, path, seedCfg, opts.svgDir, logger)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger.Error("extraction failed", "image", path, "error", err)
			failed++
			continue
		}
		results = append(results, sourcePalette{Source: path, Palette: palette})
	}

	if err := writeResults(out, results, opts.format, preview, len(paths) > 1); err != nil {
		return err
	}
	if opts.output != "" {
		logger.Info("wrote palettes", "file", opts.output, "count", len(results))
	}

	if failed > 0 {
		return fmt.Errorf("failed to extract %d of %d images", failed, len(paths))
	}
	return nil
}

// extractOne loads one image, extracts its palette and writes the SVG
// preview when svgDir is set.
func extractOne(ctx context.Context, loader image.Loader, extractor *colour.Extractor, path string, seedCfg seed.Config, svgDir string, logger hclog.Logger) (*colour.Palette, error) {
	img, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("loaded image", "image", path, "width", bounds.Dx(), "height", bounds.Dy())

	s, err := seed.Calculate(img, path, seedCfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("using seed", "image", path, "mode", seedCfg.Mode, "seed", s)

	palette, err := extractor.Extract(ctx, img, s)
	if err != nil {
		return nil, err
	}

	if svgDir != "" {
		href := path
		if !image.IsURL(path) {
			if abs, err := filepath.Abs(path); err == nil {
				href = abs
			}
		}
		written, err := export.WriteSVGFile(svgDir, path, export.SVGOptions{
			ImageHref: href,
			Width:     bounds.Dx(),
			Height:    bounds.Dy(),
		}, palette)
		if err != nil {
			return nil, fmt.Errorf("failed to write SVG: %w", err)
		}
		logger.Debug("wrote SVG", "file", written)
	}
	return palette, nil
}

// resolveConfig layers the config file, the environment and any flags the
// user set explicitly.
func resolveConfig(cmd *cobra.Command, opts *extractOptions) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	optional := path == ""
	if optional {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.NewBuilder().
		WithFile(path, optional).
		WithEnv(os.LookupEnv).
		Build()
	if err != nil {
		return config.Config{}, err
	}

	setters := map[string]func(){
		"colours":        func() { cfg.Colours = opts.colours },
		"algorithm":      func() { cfg.Algorithm = opts.algorithm },
		"init":           func() { cfg.Init = opts.initialiser },
		"space":          func() { cfg.Space = opts.space },
		"selection":      func() { cfg.Selection = opts.selection },
		"criterion":      func() { cfg.Criterion = opts.criterion },
		"resolution":     func() { cfg.Resolution = opts.resolution },
		"max-points":     func() { cfg.MaxPoints = opts.maxPoints },
		"sample-method":  func() { cfg.SampleMethod = opts.sampleMethod },
		"seed-mode":      func() { cfg.SeedMode = opts.seedMode },
		"max-iterations": func() { cfg.MaxIterations = opts.maxIterations },
		"parallel":       func() { cfg.Parallelism = opts.parallelism },
	}
	// Visit only walks flags set on the command line.
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		if set, ok := setters[f.Name]; ok {
			set()
		}
	})
	if flags.Changed("seed") {
		cfg.Seed = &opts.seed
		if !flags.Changed("seed-mode") {
			cfg.SeedMode = string(seed.ModeManual)
		}
	}
	return cfg, nil
}

// buildExtractorConfig parses the string settings in cfg.
func buildExtractorConfig(cfg config.Config) (colour.ExtractorConfig, seed.Config, error) {
	var ex colour.ExtractorConfig
	initialiser, err := kmeans.ParseInitializer(cfg.Init)
	if err != nil {
		return ex, seed.Config{}, err
	}
	if ex.Algorithm, err = kmeans.ParseAlgorithm(cfg.Algorithm, initialiser); err != nil {
		return ex, seed.Config{}, err
	}
	if ex.Space, err = colour.ParseSpace(cfg.Space); err != nil {
		return ex, seed.Config{}, err
	}
	if ex.Size, err = colour.ParsePaletteSize(cfg.Colours); err != nil {
		return ex, seed.Config{}, err
	}
	if ex.Selection, err = colour.ParseSelection(cfg.Selection); err != nil {
		return ex, seed.Config{}, err
	}
	if ex.Criterion, err = kmeans.ParseCriterion(cfg.Criterion); err != nil {
		return ex, seed.Config{}, err
	}
	if ex.SampleMethod, err = image.ParseSampleMethod(cfg.SampleMethod); err != nil {
		return ex, seed.Config{}, err
	}
	ex.Resolution = cfg.Resolution
	ex.MaxPoints = cfg.MaxPoints
	ex.MaxIterations = cfg.MaxIterations
	ex.Parallelism = cfg.Parallelism

	mode, err := seed.ParseMode(cfg.SeedMode)
	if err != nil {
		return ex, seed.Config{}, err
	}
	if mode == seed.ModeManual && cfg.Seed == nil {
		return ex, seed.Config{}, fmt.Errorf("seed value is required for manual seed mode (set --seed)")
	}
	return ex, seed.Config{Mode: mode, Value: cfg.Seed}, ex.Validate()
}

func joinSpaces() string {
	names := make([]string, 0, len(colour.ValidSpaces()))
	for _, s := range colour.ValidSpaces() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// sourcePalette pairs a palette with the image it came from.
type sourcePalette struct {
	Source  string
	Palette *colour.Palette
}

// writeResults writes every palette in format. With several images, text
// formats get a "# <source>" header per image and JSON becomes an array.
func writeResults(w io.Writer, results []sourcePalette, format string, preview, multi bool) error {
	if format == "json" {
		return writeJSON(w, results, multi)
	}
	for i, r := range results {
		if multi {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", r.Source)
		}
		text, err := formatPalette(r.Palette, format, preview)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []sourcePalette, multi bool) error {
	if !multi {
		if len(results) == 0 {
			return nil
		}
		data, err := results[0].Palette.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	type entry struct {
		Source  string          `json:"source"`
		Palette json.RawMessage `json:"palette"`
	}
	entries := make([]entry, 0, len(results))
	for _, r := range results {
		data, err := r.Palette.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		entries = append(entries, entry{Source: r.Source, Palette: data})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case "hex":
		return formatHex(palette, showPreview), nil
	case "rgb":
		return formatRGB(palette, showPreview), nil
	case "table":
		return formatTable(palette, showPreview), nil
	case "text":
		return palette.StringWithPreview(showPreview), nil
	case "json":
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(formats, ", "))
	}
}

// formatHex formats the palette as hex colour codes.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			sb.WriteString(colour.FormatColourWithPreview(rgb, 8) + "\n")
		} else {
			sb.WriteString(rgb.Hex() + "\n")
		}
	}
	return sb.String()
}

// formatRGB formats the palette as RGB values.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	var sb strings.Builder
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			sb.WriteString(colour.ColourPreview(rgb, 8) + " " + rgb.String() + "\n")
		} else {
			sb.WriteString(rgb.String() + "\n")
		}
	}
	return sb.String()
}

// formatTable lists every colour with its share of the sampled pixels.
func formatTable(palette *colour.Palette, showPreview bool) string {
	headers := []string{"#", "Hex", "RGB", "Prevalence"}
	if showPreview {
		headers = append(headers, "Swatch")
	}
	table := NewTable(headers)
	table.AlignRight(0)
	table.AlignRight(3)
	for i, c := range palette.Colours {
		rgb := c.RGB()
		row := []string{
			fmt.Sprint(i + 1),
			rgb.Hex(),
			fmt.Sprintf("%d, %d, %d", rgb.R, rgb.G, rgb.B),
			fmt.Sprintf("%.1f%%", c.Prevalence*100),
		}
		if showPreview {
			row = append(row, colour.ColourPreview(rgb, 6))
		}
		table.AddRow(row)
	}
	return table.Render()
}
