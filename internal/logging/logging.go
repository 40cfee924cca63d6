// Package logging configures the logrus logger shared by commands and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const logFileMode = 0o600

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name. Empty means info.
	Level string
	// File is the log destination. Empty means Fallback.
	File string
	// Debug forces the debug level.
	Debug bool
	// JSON selects the JSON formatter instead of text.
	JSON bool
	// Fallback receives log output when File is empty or cannot be opened.
	// Nil means os.Stderr.
	Fallback io.Writer
}

// Setup builds a logger from opts. The returned close function releases the
// log file and is safe to call when none was opened.
func Setup(opts Options) (*log.Logger, func() error, error) {
	logger := log.New()

	level := log.InfoLevel
	if opts.Level != "" {
		lvl, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = lvl
	}
	if opts.Debug {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	if opts.JSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	fallback := opts.Fallback
	if fallback == nil {
		fallback = os.Stderr
	}
	logger.SetOutput(fallback)

	noop := func() error { return nil }
	if opts.File == "" {
		return logger, noop, nil
	}

	f, err := openFile(opts.File)
	if err != nil {
		logger.WithError(err).WithField("file", opts.File).Warn("cannot open log file, logging to stderr")
		return logger, noop, nil
	}
	logger.SetOutput(f)
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openFile(path string) (*os.File, error) {
	const dirMode = 0o750
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode) //nolint:gosec // path from config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
