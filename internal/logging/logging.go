// Package logging builds the hclog loggers used across colourskim.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "colourskim"

// Level maps the verbose and quiet flags to a log level. Quiet wins.
func Level(verbose, quiet bool) hclog.Level {
	switch {
	case quiet:
		return hclog.Error
	case verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}

// New returns a logger writing to w, or to stderr when w is nil. Colour is
// used only when w is a terminal.
func New(verbose, quiet bool, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:            Name,
		Output:          w,
		Level:           Level(verbose, quiet),
		Color:           hclog.AutoColor,
		DisableTime:     !verbose,
		IncludeLocation: false,
	})
}
