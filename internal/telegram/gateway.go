package telegram

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/prismsignal/prism/internal/config"
	"github.com/prismsignal/prism/internal/notify"
	"github.com/prismsignal/prism/internal/pdfconv"
)

// DefaultSendPause is the delay between consecutive document sends, keeping
// the transport below its throttling threshold.
const DefaultSendPause = 1 * time.Second

// Sender is the transport dependency of the gateway.
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
	SendDocument(ctx context.Context, chatID, path string) error
}

// Gateway delivers alert text, notification messages, and documents to the
// configured channels. When delivery is disabled every method is a
// successful no-op, so callers never branch on configuration.
type Gateway struct {
	cfg     *config.DeliveryConfig
	sender  Sender
	sentDir string
	pause   time.Duration
	sleep   func(time.Duration)
	logger  zerolog.Logger
}

// NewGateway creates a Gateway. sentDir receives delivered message files.
func NewGateway(cfg *config.DeliveryConfig, sender Sender, sentDir string, logger zerolog.Logger) *Gateway {
	return &Gateway{
		cfg:     cfg,
		sender:  sender,
		sentDir: sentDir,
		pause:   DefaultSendPause,
		sleep:   time.Sleep,
		logger:  logger,
	}
}

// Enabled reports whether delivery is configured on.
func (g *Gateway) Enabled() bool {
	return g.cfg.Enabled
}

// ChannelID returns the primary destination channel.
func (g *Gateway) ChannelID() string {
	return g.cfg.ChannelID
}

// SendAlert posts the trigger alert to the primary channel and to every
// configured per-language broadcast channel.
func (g *Gateway) SendAlert(ctx context.Context, text string) error {
	if !g.cfg.Enabled {
		g.logger.Info().Msg("delivery disabled; skipping signal alert")
		return nil
	}
	if err := g.sender.SendMessage(ctx, g.cfg.ChannelID, text); err != nil {
		return err
	}
	for lang, channelID := range g.cfg.BroadcastChannels {
		if err := g.sender.SendMessage(ctx, channelID, text); err != nil {
			g.logger.Error().Err(err).Str("language", lang).Str("channel", channelID).Msg("broadcast alert failed")
		}
	}
	return nil
}

// DeliverMessages sends each notification message to the primary channel and
// archives the sent file under the sent directory. Failed items are logged
// and skipped; successes are returned in input order.
func (g *Gateway) DeliverMessages(ctx context.Context, messages []notify.Artifact) []notify.Artifact {
	if !g.cfg.Enabled {
		g.logger.Info().Int("count", len(messages)).Msg("delivery disabled; skipping message sends")
		return messages
	}

	var sent []notify.Artifact
	for _, msg := range messages {
		if err := g.sender.SendMessage(ctx, g.cfg.ChannelID, msg.Text); err != nil {
			g.logger.Error().Err(err).Str("code", msg.Code).Msg("message delivery failed")
			continue
		}
		g.archive(msg.Path)
		sent = append(sent, msg)
	}
	return sent
}

// DeliverDocuments uploads each document to the primary channel, pausing
// between consecutive sends. Failed items are logged and skipped.
func (g *Gateway) DeliverDocuments(ctx context.Context, docs []pdfconv.Artifact) []pdfconv.Artifact {
	if !g.cfg.Enabled {
		g.logger.Info().Int("count", len(docs)).Msg("delivery disabled; skipping document sends")
		return docs
	}

	var sent []pdfconv.Artifact
	for i, doc := range docs {
		if i > 0 {
			g.sleep(g.pause)
		}
		if err := g.sender.SendDocument(ctx, g.cfg.ChannelID, doc.Path); err != nil {
			g.logger.Error().Err(err).Str("path", doc.Path).Msg("document delivery failed")
			continue
		}
		g.logger.Info().Str("path", doc.Path).Msg("document delivered")
		sent = append(sent, doc)
	}
	return sent
}

// archive moves a delivered message file into the sent directory. Archival
// failure is not a delivery failure.
func (g *Gateway) archive(path string) {
	if g.sentDir == "" {
		return
	}
	dest := filepath.Join(g.sentDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		g.logger.Warn().Err(err).Str("path", path).Msg("failed to archive sent message")
	}
}
