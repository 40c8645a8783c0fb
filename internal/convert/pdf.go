// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF extracts text from PDF files natively with pdfcpu, without OCR. Page
// content streams are parsed for text-show operators; a page that fails to
// extract is noted in place and the result is marked partial. Scanned PDFs
// with no text layer come out mostly empty, which is the documented tradeoff
// against the container backend.
type PDF struct{}

// NewPDF returns the native PDF backend.
func NewPDF() *PDF { return &PDF{} }

func (p *PDF) Accepts(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func (p *PDF) Convert(ctx context.Context, path string) (Result, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading page count of %s: %w", path, err)
	}

	tmp, err := os.MkdirTemp("", "textmify_pdf_*")
	if err != nil {
		return Result{}, fmt.Errorf("creating extraction directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := api.ExtractContentFile(path, tmp, nil, conf); err != nil {
		return Result{}, fmt.Errorf("extracting content of %s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	partial := false

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		contentFile := filepath.Join(tmp, fmt.Sprintf("%s_Content_page_%d.txt", stem, page))
		data, err := os.ReadFile(contentFile)
		if err != nil {
			partial = true
			fmt.Fprintf(&b, "## Page %d\n\n*content extraction failed*\n\n", page)
			continue
		}

		text := textFromContentStream(string(data))
		if text == "" {
			text = "*no text content on this page*"
		}
		fmt.Fprintf(&b, "## Page %d\n\n%s\n\n", page, text)
	}

	return Result{Markdown: strings.TrimSpace(b.String()) + "\n", Partial: partial}, nil
}

// textFromContentStream pulls the operands of text-show operators (Tj, TJ,
// ', ") out of a raw PDF content stream and joins them into plain text.
func textFromContentStream(content string) string {
	var texts []string
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.Contains(line, " Tj") && !strings.Contains(line, " TJ") &&
			!strings.Contains(line, "' ") && !strings.Contains(line, "\" ") {
			continue
		}
		texts = append(texts, literalStrings(line)...)
	}
	return strings.Join(strings.Fields(strings.Join(texts, " ")), " ")
}

// literalStrings extracts the unescaped contents of every (...) literal in a
// content stream line.
func literalStrings(line string) []string {
	var out []string
	inText := false
	start := -1

	for i, ch := range line {
		switch {
		case ch == '(' && (i == 0 || line[i-1] != '\\'):
			inText = true
			start = i + 1
		case ch == ')' && inText && (i == 0 || line[i-1] != '\\'):
			if start >= 0 && start < i {
				if text := unescapeLiteral(line[start:i]); strings.TrimSpace(text) != "" {
					out = append(out, text)
				}
			}
			inText = false
			start = -1
		}
	}
	return out
}

func unescapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
	)
	return replacer.Replace(s)
}
