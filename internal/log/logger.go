package log

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// Options configures New.
type Options struct {
	// Stderr receives log records. Nil discards them.
	Stderr io.Writer

	// File is an optional log file path. Records are appended and the
	// file is rotated by size.
	File string

	// Verbose lowers the level from Warn to Debug.
	Verbose bool
}

// nopCloser is returned when there is nothing to close.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a redacting text logger and a Closer for the log file.
// The Closer is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}

	var writers []io.Writer
	if opts.Stderr != nil {
		writers = append(writers, opts.Stderr)
	}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
		}
		// Open eagerly so a bad path fails before the crawl starts.
		if _, err := lj.Write(nil); err != nil {
			return nil, closer, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		writers = append(writers, lj)
		closer = lj
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = io.Discard
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	return NewLogger(w, opts.Verbose), closer, nil
}

// NewLogger returns a redacting text logger writing to w at Warn level,
// or Debug level when verbose is true.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactHandler(handler))
}
