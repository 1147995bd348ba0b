package pdfconv

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// browserTimeout bounds a single print-to-PDF run.
const browserTimeout = 60 * time.Second

// BrowserBackend renders markdown through headless Chrome: markdown is
// converted to styled HTML and printed to PDF. Chrome ships CJK fonts, so
// Korean reports render without a bundled font file. Requires
// Chrome/Chromium on the host.
type BrowserBackend struct {
	logger zerolog.Logger
}

// NewBrowserBackend creates the Chrome print-to-PDF renderer.
func NewBrowserBackend(logger zerolog.Logger) *BrowserBackend {
	return &BrowserBackend{logger: logger}
}

// Render converts markdown content into PDF bytes via Page.PrintToPDF.
func (b *BrowserBackend) Render(ctx context.Context, markdown, title string) ([]byte, error) {
	html, err := toHTML(markdown, title)
	if err != nil {
		return nil, err
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, browserTimeout)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfData []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // A4
				WithPaperHeight(11.69). // A4
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}

	b.logger.Debug().Int("bytes", len(pdfData)).Msg("printed PDF via headless browser")
	return pdfData, nil
}

func toHTML(markdown, title string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.Linkify))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: "Noto Sans KR", "Malgun Gothic", sans-serif; margin: 2em; line-height: 1.5; }
h1 { border-bottom: 2px solid #333; padding-bottom: 0.3em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 8px; }
code { background: #f5f5f5; padding: 1px 4px; }
</style>
</head>
<body>
%s
</body>
</html>`, title, body.String()), nil
}
