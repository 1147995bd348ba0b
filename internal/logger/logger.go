// Package logger provides zerolog construction for the orchestrator.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	Level string // debug, info, warn, error
	Dir   string // directory for the dated log file; empty disables file output
}

// New creates a logger writing human-readable output to stderr and, when
// Dir is set, JSON lines to orchestrator_YYYYMMDD.log in that directory.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var output io.Writer = console
	if cfg.Dir != "" {
		name := fmt.Sprintf("orchestrator_%s.log", time.Now().Format("20060102"))
		file, err := os.OpenFile(filepath.Join(cfg.Dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("could not open log file: %w", err)
		}
		output = zerolog.MultiLevelWriter(console, file)
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// Nop returns a disabled logger for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
