// Package notify composes channel-ready notification text for each converted
// report document.
package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prismsignal/prism/internal/pdfconv"
)

// Collaborator condenses a full report into channel message text.
type Collaborator interface {
	Summarize(ctx context.Context, reportText, name, code, language string) (string, error)
}

// Artifact is one composed notification message.
type Artifact struct {
	Code         string
	Name         string
	Path         string
	Text         string
	DocumentPath string
}

// Composer builds one message per document, sequentially, isolating per-item
// failures.
type Composer struct {
	collaborator Collaborator
	messagesDir  string
	language     string
	logger       zerolog.Logger
}

// NewComposer creates a Composer writing messages under messagesDir.
func NewComposer(collaborator Collaborator, messagesDir, language string, logger zerolog.Logger) *Composer {
	return &Composer{
		collaborator: collaborator,
		messagesDir:  messagesDir,
		language:     language,
		logger:       logger,
	}
}

// ComposeAll produces messages for each document in order and returns the
// successful ones. A failed item is logged and skipped.
func (c *Composer) ComposeAll(ctx context.Context, docs []pdfconv.Artifact) []Artifact {
	c.logger.Info().Int("count", len(docs)).Msg("starting notification composition")

	var messages []Artifact
	for _, doc := range docs {
		msg, err := c.composeOne(ctx, doc)
		if err != nil {
			c.logger.Error().Err(err).Str("code", doc.Code).Str("document", doc.Path).Msg("notification composition failed")
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (c *Composer) composeOne(ctx context.Context, doc pdfconv.Artifact) (Artifact, error) {
	reportBytes, err := os.ReadFile(doc.ReportPath)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read report %s: %w", doc.ReportPath, err)
	}
	reportText := string(reportBytes)

	title, _, err := ExtractLead(reportText)
	if err != nil {
		return Artifact{}, err
	}
	if title == "" {
		title = fmt.Sprintf("%s (%s)", doc.Name, doc.Code)
	}

	summary, err := c.collaborator.Summarize(ctx, reportText, doc.Name, doc.Code, c.language)
	if err != nil {
		return Artifact{}, err
	}
	if strings.TrimSpace(summary) == "" {
		return Artifact{}, fmt.Errorf("empty summary for %s(%s)", doc.Name, doc.Code)
	}

	text := fmt.Sprintf("📈 %s\n\n%s", title, strings.TrimSpace(summary))

	path := filepath.Join(c.messagesDir, fmt.Sprintf("%s_%s_telegram.txt", doc.Code, doc.Name))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("failed to persist message %s: %w", path, err)
	}

	c.logger.Info().Str("path", path).Msg("notification message composed")
	return Artifact{Code: doc.Code, Name: doc.Name, Path: path, Text: text, DocumentPath: doc.Path}, nil
}
