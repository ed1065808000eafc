// Package imagecache keeps downloaded images on disk so that repeated runs
// over the same URL fetch it only once.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/colourskim/internal/util/http"
)

// FetchFunc downloads url.
type FetchFunc func(ctx context.Context, url string, opts httputil.FetchOptions) ([]byte, error)

// Cache stores downloaded images in a directory, one file per URL.
type Cache struct {
	dir      string
	maxBytes int64
	fetch    FetchFunc
}

// New returns a cache rooted at dir, or at DefaultCacheDir when dir is
// empty. Downloads larger than maxBytes fail; zero means no bound.
func New(dir string, maxBytes int64) (*Cache, error) {
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Cache{dir: dir, maxBytes: maxBytes, fetch: httputil.Fetch}, nil
}

// WithFetch replaces the function used to download images.
func (c *Cache) WithFetch(fetch FetchFunc) *Cache {
	c.fetch = fetch
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir not available.
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "colourskim", "images"), nil
	}
	return filepath.Join(cacheDir, "colourskim", "images"), nil
}

// Filename returns the cache file name for url: a hash of the URL followed
// by the URL's extension, so compressed downloads keep their suffix.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 || strings.Contains(ext, "/") {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], ext)
}

// Get returns the path of the cached copy of url, downloading it first when
// there is none. hit reports whether the file was already cached.
func (c *Cache) Get(ctx context.Context, url string) (path string, hit bool, err error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", false, fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	path = filepath.Join(c.dir, Filename(url))
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return path, true, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", false, fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := c.fetch(ctx, url, httputil.FetchOptions{MaxBytes: c.maxBytes})
	if err != nil {
		return "", false, fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so an interrupted download never leaves a partial
	// file under the final name.
	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return "", false, fmt.Errorf("failed to create cache file: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		return "", false, fmt.Errorf("failed to write cached image: %w", firstErr(werr, cerr))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", false, fmt.Errorf("failed to store cached image: %w", err)
	}
	return path, false, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
