// Package seed derives the random seed used for clustering so that the same
// input produces the same palette.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
)

// Mode determines where the seed comes from.
type Mode string

const (
	// ModeContent hashes the image pixels (default).
	ModeContent Mode = "content"
	// ModeFilepath hashes the absolute path or URL of the image.
	ModeFilepath Mode = "filepath"
	// ModeManual uses Config.Value.
	ModeManual Mode = "manual"
	// ModeRandom draws a fresh seed on every run.
	ModeRandom Mode = "random"
)

// Config holds configuration for seed generation.
type Config struct {
	Mode  Mode
	Value *int64 // only used by ModeManual
}

// Calculate returns the seed for an image loaded from source.
func Calculate(img image.Image, source string, cfg Config) (int64, error) {
	switch cfg.Mode {
	case ModeContent, "":
		if img == nil {
			return 0, fmt.Errorf("image is required for content seed mode")
		}
		return FromContent(img), nil
	case ModeFilepath:
		if source == "" {
			return 0, fmt.Errorf("image path is required for filepath seed mode")
		}
		return FromPath(source), nil
	case ModeManual:
		if cfg.Value == nil {
			return 0, fmt.Errorf("seed value is required for manual seed mode")
		}
		return *cfg.Value, nil
	case ModeRandom:
		return rand.Int64(), nil // #nosec G404 -- not used for anything secret
	default:
		return 0, fmt.Errorf("unknown seed mode: %s", cfg.Mode)
	}
}

// FromContent hashes the image size and a grid of at most ~100x100 pixels.
// Images with the same pixels give the same seed wherever they are stored.
func FromContent(img image.Image) int64 {
	b := img.Bounds()
	h := sha256.New()

	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(b.Dx())) // #nosec G115 -- image dimensions are non-negative
	binary.LittleEndian.PutUint32(buf[4:8], uint32(b.Dy())) // #nosec G115 -- image dimensions are non-negative
	h.Write(buf[:])

	step := max(b.Dx()/100, b.Dy()/100, 1)
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			h.Write([]byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8), byte(a >> 8)})
		}
	}
	return sum64(h.Sum(nil))
}

// FromPath hashes the absolute form of path. URLs are hashed as given.
func FromPath(path string) int64 {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	hash := sha256.Sum256([]byte(path))
	return sum64(hash[:])
}

func sum64(hash []byte) int64 {
	return int64(binary.LittleEndian.Uint64(hash[:8])) // #nosec G115 -- bit pattern reuse is intended
}

// ValidModes returns the accepted seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModeFilepath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid seed mode: %s (valid: %v)", s, ValidModes())
}
