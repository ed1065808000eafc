// Package compression decompresses single compressed files, such as
// wallpapers shipped as image.png.xz.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/colourskim/internal/security"
)

// Format is a single-file compression format.
type Format string

const (
	None  Format = ""
	Gzip  Format = "gzip"
	XZ    Format = "xz"
	Bzip2 Format = "bzip2"
)

// extensions maps file extensions to formats.
var extensions = map[string]Format{
	".gz":  Gzip,
	".xz":  XZ,
	".bz2": Bzip2,
}

// Extensions returns the recognised compression extensions.
func Extensions() []string {
	return []string{".gz", ".xz", ".bz2"}
}

// Detect returns the compression format of name from its extension.
func Detect(name string) Format {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// Strip removes a recognised compression extension from name.
func Strip(name string) string {
	if Detect(name) == None {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// NewReader returns a reader yielding at most maxBytes of the decompressed
// content of r. Reading past the limit fails with security.ErrSizeLimit.
// With None, r is returned unchanged.
func NewReader(r io.Reader, format Format, maxBytes int64) (io.Reader, error) {
	var dr io.Reader
	switch format {
	case None:
		return r, nil
	case Gzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dr = gzr
	case XZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	case Bzip2:
		dr = bzip2.NewReader(r)
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", format)
	}
	return security.NewLimitedReader(dr, maxBytes), nil
}
