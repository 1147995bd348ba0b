// Package report generates per-instrument analysis reports, one at a time.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prismsignal/prism/internal/trigger"
)

// Collaborator is the external report-generation dependency.
type Collaborator interface {
	Analyze(ctx context.Context, code, name, referenceDate, language string) (string, error)
}

// Artifact is one successfully generated report.
type Artifact struct {
	Code    string
	Name    string
	Path    string
	Content string
}

// Generator produces reports for a ticker selection. Items are processed
// strictly one at a time: the collaborator enforces a per-account rate limit,
// so serial execution is a correctness requirement, not a missed
// optimization.
type Generator struct {
	collaborator Collaborator
	reportsDir   string
	modelTag     string
	language     string
	timeout      time.Duration
	now          func() time.Time
	logger       zerolog.Logger
}

// NewGenerator creates a Generator writing reports under reportsDir.
func NewGenerator(collaborator Collaborator, reportsDir, modelTag, language string, timeout time.Duration, logger zerolog.Logger) *Generator {
	return &Generator{
		collaborator: collaborator,
		reportsDir:   reportsDir,
		modelTag:     modelTag,
		language:     language,
		timeout:      timeout,
		now:          time.Now,
		logger:       logger,
	}
}

// OutputPath builds the deterministic report path for one selection.
func (g *Generator) OutputPath(sel trigger.TickerSelection, date, mode string) string {
	name := sel.Name
	if name == "" {
		name = "종목_" + sel.Code
	}
	return filepath.Join(g.reportsDir, fmt.Sprintf("%s_%s_%s_%s_%s.md", sel.Code, name, date, mode, g.modelTag))
}

// Generate runs the collaborator for each selection in input order and
// persists non-empty results. A failed item is logged and skipped; the rest
// of the batch is still attempted. Only successful artifacts are returned,
// preserving input order.
func (g *Generator) Generate(ctx context.Context, selections []trigger.TickerSelection, mode string) []Artifact {
	g.logger.Info().Int("count", len(selections)).Str("mode", mode).Msg("starting serial report generation")

	referenceDate := g.now().Format("20060102")
	var artifacts []Artifact

	for i, sel := range selections {
		name := sel.Name
		if name == "" {
			name = "종목_" + sel.Code
		}
		itemLog := g.logger.With().
			Int("index", i+1).
			Int("total", len(selections)).
			Str("code", sel.Code).
			Str("name", name).
			Logger()

		itemLog.Info().Msg("analyzing instrument")

		itemCtx, cancel := context.WithTimeout(ctx, g.timeout)
		content, err := g.collaborator.Analyze(itemCtx, sel.Code, name, referenceDate, g.language)
		cancel()
		if err != nil {
			itemLog.Error().Err(err).Msg("report generation failed")
			continue
		}
		if strings.TrimSpace(content) == "" {
			itemLog.Error().Msg("report generation returned empty content")
			continue
		}

		path := g.OutputPath(sel, referenceDate, mode)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			itemLog.Error().Err(err).Str("path", path).Msg("failed to persist report")
			continue
		}

		itemLog.Info().Int("chars", len(content)).Str("path", path).Msg("report generated")
		artifacts = append(artifacts, Artifact{Code: sel.Code, Name: name, Path: path, Content: content})
	}

	g.logger.Info().Int("succeeded", len(artifacts)).Int("attempted", len(selections)).Msg("report generation finished")
	return artifacts
}
