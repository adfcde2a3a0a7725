// Package logging sets up the file logger. The terminal belongs to the TUI,
// so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hy4ri/todolists-tui/internal/config"
)

// DefaultFileName is the log file created in config.DataDir.
const DefaultFileName = "todolists.log"

// Options holds logger configuration.
type Options struct {
	Level  string
	File   string
	Prefix string
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "todolists"
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// Open creates a logger appending to opts.File, or to DefaultFileName in
// the data directory. The returned closer closes the file.
func Open(opts Options) (*log.Logger, io.Closer, error) {
	path := opts.File
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(f, opts), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, Options{Level: "error"})
}
