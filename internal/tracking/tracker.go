// Package tracking hands the finished run off to the stock tracking system.
package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prismsignal/prism/internal/pdfconv"
)

// Tracker receives the delivered document list at the end of a run. Its
// internal success or failure never changes the run's outcome.
type Tracker interface {
	Track(ctx context.Context, docs []pdfconv.Artifact, chatID string) error
}

// MessageSender is the transport used by the digest tracker.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// DigestTracker posts a tracking digest of the delivered reports to the
// destination channel, registering the instruments for follow-up.
type DigestTracker struct {
	sender MessageSender
	now    func() time.Time
	logger zerolog.Logger
}

// NewDigestTracker creates a DigestTracker. sender may be nil when delivery
// is disabled; tracking then only logs.
func NewDigestTracker(sender MessageSender, logger zerolog.Logger) *DigestTracker {
	return &DigestTracker{sender: sender, now: time.Now, logger: logger}
}

// Track records the run's delivered documents.
func (t *DigestTracker) Track(ctx context.Context, docs []pdfconv.Artifact, chatID string) error {
	if len(docs) == 0 {
		return nil
	}

	t.logger.Info().Int("documents", len(docs)).Msg("registering delivered reports for tracking")

	if t.sender == nil || chatID == "" {
		t.logger.Info().Msg("no tracking channel configured; digest logged only")
		return nil
	}

	msg := t.digest(docs)
	if err := t.sender.SendMessage(ctx, chatID, msg); err != nil {
		return fmt.Errorf("tracking digest delivery failed: %w", err)
	}
	return nil
}

func (t *DigestTracker) digest(docs []pdfconv.Artifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 분석 보고서 트래킹 등록\n")
	fmt.Fprintf(&b, "🕐 %s | %d개 종목\n\n", t.now().Format("01/02 15:04"), len(docs))
	for _, doc := range docs {
		fmt.Fprintf(&b, "· %s (%s)\n", doc.Name, doc.Code)
	}
	b.WriteString("\n이후 주가 흐름은 트래킹 배치에서 업데이트됩니다.")
	return b.String()
}
