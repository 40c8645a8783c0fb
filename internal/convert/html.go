// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// htmlExtensions lists the formats the HTML backend accepts.
var htmlExtensions = map[string]bool{".html": true, ".htm": true, ".xhtml": true}

// chromeTags are document elements stripped before conversion: navigation
// and page furniture that carries no document content.
var chromeTags = []string{
	"nav", "header", "footer", "aside", "form", "button",
	"select", "canvas", "svg", "video", "audio",
}

// HTML converts HTML documents to Markdown. The document title becomes a
// top-level heading when the body does not already start with one.
type HTML struct {
	conv *converter.Converter
}

// NewHTML returns the HTML backend.
func NewHTML() *HTML {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	for _, tag := range chromeTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &HTML{conv: conv}
}

func (h *HTML) Accepts(path string) bool {
	return htmlExtensions[strings.ToLower(filepath.Ext(path))]
}

func (h *HTML) Convert(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	html := string(data)

	markdown, err := h.conv.ConvertString(html)
	if err != nil {
		return Result{}, fmt.Errorf("converting %s to markdown: %w", path, err)
	}
	markdown = strings.TrimSpace(markdown)

	if title := documentTitle(html); title != "" && !strings.HasPrefix(markdown, "# ") {
		markdown = "# " + title + "\n\n" + markdown
	}

	return Result{Markdown: markdown + "\n"}, nil
}

// documentTitle returns the trimmed <title> text, or "" when the document
// has none or cannot be parsed.
func documentTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}
