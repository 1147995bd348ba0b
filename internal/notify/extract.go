package notify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

// leadLimit caps the extracted lead text length.
const leadLimit = 600

// ExtractLead pulls the report title and opening prose out of a markdown
// report. The markdown is rendered to HTML and queried: the first h1 (or h2)
// is the title, the first paragraphs form the lead.
func ExtractLead(markdown string) (title, lead string, err error) {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &html); err != nil {
		return "", "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&html)
	if err != nil {
		return "", "", fmt.Errorf("HTML parsing failed: %w", err)
	}

	title = strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h2").First().Text())
	}

	var b strings.Builder
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
		return b.Len() < leadLimit
	})

	lead = b.String()
	if len(lead) > leadLimit {
		lead = truncateRunes(lead, leadLimit)
	}
	return title, lead, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
