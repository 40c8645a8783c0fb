// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSV renders comma-separated files as a Markdown table, first record as the
// header row.
type CSV struct{}

// NewCSV returns the CSV backend.
func NewCSV() *CSV { return &CSV{} }

func (c *CSV) Accepts(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func (c *CSV) Convert(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return Result{Markdown: ""}, nil
	}

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	var b strings.Builder
	writeRow(&b, records[0], width)

	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep, width)

	for _, rec := range records[1:] {
		writeRow(&b, rec, width)
	}

	return Result{Markdown: b.String()}, nil
}

// writeRow emits one padded Markdown table row, escaping pipes in cells.
func writeRow(b *strings.Builder, cells []string, width int) {
	b.WriteString("|")
	for i := range width {
		cell := ""
		if i < len(cells) {
			cell = strings.ReplaceAll(cells[i], "|", `\|`)
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}
