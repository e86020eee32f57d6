// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/dshills/hookwire/internal/config"
)

// New returns a logger writing to w at level. With config.FormatAuto the
// output is human readable when w is a terminal and JSON otherwise.
func New(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if format == config.FormatConsole || format == config.FormatAuto && IsTerminal(w) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "hookctl").Logger()
}

// FromConfig returns a logger writing to w with the level and format of c.
func FromConfig(w io.Writer, c config.Config) (zerolog.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	return New(w, lvl, c.LogFormat), nil
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
