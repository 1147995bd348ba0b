// Package pdfconv converts markdown reports into distributable PDF documents.
package pdfconv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prismsignal/prism/internal/report"
)

// Backend renders markdown to PDF bytes.
type Backend interface {
	Render(ctx context.Context, markdown, title string) ([]byte, error)
}

// Artifact is one converted document.
type Artifact struct {
	Code       string
	Name       string
	Path       string
	ReportPath string
}

// Converter converts report artifacts one at a time. A failed conversion is
// logged and skipped so one bad report cannot block the others.
type Converter struct {
	backend Backend
	pdfDir  string
	logger  zerolog.Logger
}

// NewConverter creates a Converter writing PDFs under pdfDir.
func NewConverter(backend Backend, pdfDir string, logger zerolog.Logger) *Converter {
	return &Converter{backend: backend, pdfDir: pdfDir, logger: logger}
}

// ConvertAll converts each report in order and returns the successful
// documents, preserving input order.
func (c *Converter) ConvertAll(ctx context.Context, reports []report.Artifact) []Artifact {
	c.logger.Info().Int("count", len(reports)).Msg("starting PDF conversion")

	var docs []Artifact
	for _, rep := range reports {
		stem := strings.TrimSuffix(filepath.Base(rep.Path), filepath.Ext(rep.Path))
		pdfPath := filepath.Join(c.pdfDir, stem+".pdf")

		data, err := c.backend.Render(ctx, rep.Content, rep.Name)
		if err != nil {
			c.logger.Error().Err(err).Str("report", rep.Path).Msg("PDF conversion failed")
			continue
		}
		if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
			c.logger.Error().Err(err).Str("path", pdfPath).Msg("failed to write PDF")
			continue
		}

		c.logger.Info().Str("path", pdfPath).Msg("PDF conversion complete")
		docs = append(docs, Artifact{Code: rep.Code, Name: rep.Name, Path: pdfPath, ReportPath: rep.Path})
	}
	return docs
}

// NewBackend selects a rendering backend by name: "browser" uses headless
// Chrome print-to-PDF, anything else the embedded renderer.
func NewBackend(name, fontPath string, logger zerolog.Logger) (Backend, error) {
	switch name {
	case "browser":
		return NewBrowserBackend(logger), nil
	case "", "embedded":
		return NewMarkdownBackend(fontPath, logger), nil
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", name)
	}
}
