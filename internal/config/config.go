// Package config provides configuration loading and validation for the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default locations and limits. Directories are relative to the working
// directory unless overridden.
const (
	DefaultReportsDir  = "reports"
	DefaultPDFDir      = "pdf_reports"
	DefaultMessagesDir = "telegram_messages"
	SentSubdir         = "sent"

	// DefaultWatchdogBudget is the hard wall-clock limit for the whole
	// process, covering every requested mode.
	DefaultWatchdogBudget = 120 * time.Minute

	// DefaultReportTimeout bounds a single report-generation call.
	DefaultReportTimeout = 10 * time.Minute
)

// Config is the process-wide configuration, constructed once in the run
// command and passed by reference into the orchestrator and gateway.
type Config struct {
	Language string // "ko" or "en"

	// TriggerCommand is the external screening program. Arguments are
	// appended by the runner: mode, log level, --output <path>.
	TriggerCommand string

	ResultsDir  string
	ReportsDir  string
	PDFDir      string
	MessagesDir string

	WatchdogBudget time.Duration
	ReportTimeout  time.Duration

	// DatabaseURL enables optional run persistence when non-empty.
	DatabaseURL string

	SkipMarketCheck bool

	Delivery DeliveryConfig
}

// New returns a Config populated with defaults and environment values.
// CLI flags override the returned values before validation.
func New() *Config {
	return &Config{
		Language:       "ko",
		TriggerCommand: envOr("TRIGGER_COMMAND", "trigger_batch"),
		ResultsDir:     ".",
		ReportsDir:     DefaultReportsDir,
		PDFDir:         DefaultPDFDir,
		MessagesDir:    DefaultMessagesDir,
		WatchdogBudget: DefaultWatchdogBudget,
		ReportTimeout:  DefaultReportTimeout,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
}

// SentDir returns the subdirectory where delivered messages are archived.
func (c *Config) SentDir() string {
	return filepath.Join(c.MessagesDir, SentSubdir)
}

// EnsureDirs creates the artifact directories idempotently.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.ReportsDir, c.PDFDir, c.MessagesDir, c.SentDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
