// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// passthroughExtensions are already text markup and need no engine.
var passthroughExtensions = map[string]bool{".md": true, ".markdown": true, ".txt": true}

// Passthrough copies Markdown and plain-text sources through unchanged,
// normalizing invalid UTF-8.
type Passthrough struct{}

// NewPassthrough returns the passthrough backend.
func NewPassthrough() *Passthrough { return &Passthrough{} }

func (p *Passthrough) Accepts(path string) bool {
	return passthroughExtensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Passthrough) Convert(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Result{Markdown: strings.ToValidUTF8(string(data), "�")}, nil
}
