package pdfconv

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownBackend renders markdown to PDF with an embedded layout engine.
// Reports are Korean text, so a Unicode TTF font path should be supplied;
// without one the fpdf core fonts only cover Latin glyphs.
type MarkdownBackend struct {
	fontPath string
	logger   zerolog.Logger
}

// NewMarkdownBackend creates the embedded renderer. fontPath may be empty.
func NewMarkdownBackend(fontPath string, logger zerolog.Logger) *MarkdownBackend {
	return &MarkdownBackend{fontPath: fontPath, logger: logger}
}

// Render converts markdown content into PDF bytes.
func (b *MarkdownBackend) Render(_ context.Context, markdown, title string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	font := "Arial"
	if b.fontPath != "" {
		font = "report"
		pdf.AddUTF8Font(font, "", b.fontPath)
		pdf.AddUTF8Font(font, "B", b.fontPath)
	}
	pdf.SetFont(font, "", 10)

	md := goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Table))
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	r := &layout{pdf: pdf, source: source, font: font, size: 10}
	if err := ast.Walk(doc, r.walk); err != nil {
		return nil, fmt.Errorf("failed to lay out markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to produce PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

type layout struct {
	pdf       *fpdf.Fpdf
	source    []byte
	font      string
	size      float64
	bold      bool
	listLevel int
}

func (r *layout) resetFont() {
	style := ""
	if r.bold {
		style = "B"
	}
	r.pdf.SetFont(r.font, style, r.size)
}

func (r *layout) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(5)
			size := 16.0 - float64(node.Level)*1.5
			if size < 10 {
				size = 10
			}
			r.pdf.SetFont(r.font, "B", size)
		} else {
			r.pdf.Ln(6)
			r.resetFont()
		}
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(6)
		}
	case *ast.Text:
		if entering {
			r.pdf.Write(5, string(node.Segment.Value(r.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.pdf.Write(5, " ")
			}
		}
	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
			r.resetFont()
		}
	case *ast.List:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case *ast.ListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(15 + float64(r.listLevel)*5)
			r.pdf.Write(5, "- ")
		}
	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(3)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(3)
		}
	case *ast.FencedCodeBlock:
		if entering {
			r.codeBlock(node.Lines())
			return ast.WalkSkipChildren, nil
		}
	case *ast.CodeBlock:
		if entering {
			r.codeBlock(node.Lines())
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *layout) codeBlock(lines *text.Segments) {
	r.pdf.Ln(2)
	r.pdf.SetFillColor(245, 245, 245)
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.pdf.MultiCell(0, 5, string(seg.Value(r.source)), "", "L", true)
	}
	r.pdf.SetFillColor(255, 255, 255)
	r.resetFont()
	r.pdf.Ln(2)
}
