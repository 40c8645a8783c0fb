// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/textmify/internal/container"
	"github.com/pdiddy/textmify/pkg/types"
)

const imageMarkitdown = "markitdown:latest"

// Markitdown converts documents by piping them through the markitdown
// container image. It accepts every supported format; OCR and model-cache
// settings travel as container environment variables.
type Markitdown struct {
	engine container.Engine
	env    []string
}

// NewMarkitdown creates the container-backed converter. It verifies that
// the markitdown image exists locally before returning.
func NewMarkitdown(engine container.Engine, cfg types.ConversionConfig) (*Markitdown, error) {
	if engine == nil {
		return nil, fmt.Errorf("markitdown backend requires a container engine")
	}
	if err := engine.HasImage(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", engine.Name(), err)
	}

	var env []string
	if cfg.DisableOCR {
		env = append(env, "MARKITDOWN_DISABLE_OCR=1")
	}
	if cfg.ArtifactsPath != "" {
		env = append(env, "MARKITDOWN_ARTIFACTS_PATH="+cfg.ArtifactsPath)
	}

	return &Markitdown{engine: engine, env: env}, nil
}

// Accepts reports whether markitdown can handle the file. The container
// covers the full supported format range.
func (m *Markitdown) Accepts(path string) bool {
	return IsSupported(path)
}

// Convert pipes the file through the markitdown container and returns the
// Markdown it emits. Empty output is treated as a failure so the retry
// policy gets a chance to recover a flaky container run.
func (m *Markitdown) Convert(ctx context.Context, path string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.engine.Run(imageMarkitdown, m.env, f, &out); err != nil {
		return Result{}, fmt.Errorf("converting %s with markitdown: %w", path, err)
	}
	if out.Len() == 0 {
		return Result{}, fmt.Errorf("markitdown produced empty output for %s", path)
	}

	return Result{Markdown: out.String()}, nil
}
