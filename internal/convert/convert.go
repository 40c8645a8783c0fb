// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert transforms source documents into Markdown artifacts through
// pluggable backends. The markitdown container handles the full format range;
// native backends cover PDF, HTML, CSV, and plain text without a container
// engine. A failed conversion is retried with exponential backoff; partial
// output is persisted rather than retried.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/textmify/internal/container"
	"github.com/pdiddy/textmify/internal/pack"
	"github.com/pdiddy/textmify/internal/retry"
	"github.com/pdiddy/textmify/pkg/types"
)

// Result holds the outcome of one engine invocation.
type Result struct {
	// Markdown is the converted content.
	Markdown string

	// Partial is true when the engine produced output but reported that
	// some content may be missing. Partial output is still persisted.
	Partial bool
}

// Converter converts a single document to Markdown. Backends are consulted
// in order; the first one that accepts a file converts it.
type Converter interface {
	// Accepts reports whether this backend handles the file at path,
	// judged by extension.
	Accepts(path string) bool

	// Convert reads the document at path and returns its Markdown form.
	Convert(ctx context.Context, path string) (Result, error)
}

// FileOutcome records what happened to one source document.
type FileOutcome struct {
	Doc      types.Document
	Output   string
	Status   types.ConversionStatus
	Attempts int
	Words    int
}

// BatchResult summarizes a conversion run.
type BatchResult struct {
	Converted int
	Partial   int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Partial + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline routes documents to backends, retries failures, and persists the
// resulting Markdown artifacts.
type Pipeline struct {
	converters []Converter
	policy     retry.Policy
	force      bool
	log        logrus.FieldLogger
}

// NewPipeline builds a Pipeline over the given backend chain. A nil log
// discards diagnostics.
func NewPipeline(converters []Converter, policy retry.Policy, force bool, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{converters: converters, policy: policy, force: force, log: log}
}

// ConvertFile converts one document and writes <outDir>/<stem>.md. An
// existing output skips the conversion unless the pipeline was built with
// force. Failures are retried per the pipeline policy; after the last
// attempt the document is reported failed and the batch moves on.
func (p *Pipeline) ConvertFile(ctx context.Context, doc types.Document, outDir string) FileOutcome {
	outcome := FileOutcome{Doc: doc, Output: filepath.Join(outDir, doc.Stem+".md")}

	if !p.force {
		if _, err := os.Stat(outcome.Output); err == nil {
			p.log.Debugf("skipped %s: output already exists", doc.Stem)
			outcome.Status = types.ConversionNone
			return outcome
		}
	}

	conv := p.converterFor(doc.Path)
	if conv == nil {
		p.log.Warnf("no backend accepts %s", doc.Path)
		outcome.Status = types.ConversionFailed
		return outcome
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		p.log.WithError(err).Errorf("creating output directory for %s", doc.Stem)
		outcome.Status = types.ConversionFailed
		return outcome
	}

	var result Result
	err := retry.Do(ctx, p.policy, func() error {
		outcome.Attempts++
		var attemptErr error
		result, attemptErr = conv.Convert(ctx, doc.Path)
		if attemptErr != nil {
			p.log.Warnf("converting %s (attempt %d/%d): %v",
				doc.Stem, outcome.Attempts, p.policy.MaxAttempts, attemptErr)
		}
		return attemptErr
	})
	if err != nil {
		p.log.Errorf("failed to convert %s after %d attempts: %v", doc.Stem, outcome.Attempts, err)
		outcome.Status = types.ConversionFailed
		return outcome
	}

	if err := os.WriteFile(outcome.Output, []byte(result.Markdown), 0o644); err != nil {
		p.log.WithError(err).Errorf("writing %s", outcome.Output)
		outcome.Status = types.ConversionFailed
		return outcome
	}

	outcome.Words = pack.Words(result.Markdown)
	if result.Partial {
		p.log.Warnf("partial conversion of %s: some content may be missing", doc.Stem)
		outcome.Status = types.ConversionPartial
	} else {
		p.log.Debugf("converted %s (%d words)", doc.Stem, outcome.Words)
		outcome.Status = types.ConversionDone
	}
	return outcome
}

// ConvertBatch processes documents one at a time in input order, returning
// the per-file outcomes and a summary. A single failure never aborts the
// batch; cancellation of ctx does.
func (p *Pipeline) ConvertBatch(ctx context.Context, docs []types.Document, outDir string) ([]FileOutcome, BatchResult, error) {
	outcomes := make([]FileOutcome, 0, len(docs))
	var batch BatchResult

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return outcomes, batch, err
		}

		p.log.Infof("processing %s", doc.Path)
		outcome := p.ConvertFile(ctx, doc, outDir)
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case types.ConversionDone:
			batch.Converted++
		case types.ConversionPartial:
			batch.Partial++
		case types.ConversionNone:
			batch.Skipped++
		case types.ConversionFailed:
			batch.Failed++
		}
	}

	p.log.Infof("batch: %d converted, %d partial, %d skipped, %d failed (total %d)",
		batch.Converted, batch.Partial, batch.Skipped, batch.Failed, batch.Total())
	return outcomes, batch, nil
}

func (p *Pipeline) converterFor(path string) Converter {
	for _, c := range p.converters {
		if c.Accepts(path) {
			return c
		}
	}
	return nil
}

// Chain assembles the backend chain for cfg. BackendAuto prefers native
// extractors and falls back to the markitdown container for everything else;
// BackendNative omits the container; BackendMarkitdown routes every format
// through it. engine may be nil only when the chain does not need the
// container.
func Chain(cfg types.ConversionConfig, engine container.Engine) ([]Converter, error) {
	native := []Converter{
		NewPassthrough(),
		NewCSV(),
		NewHTML(),
		NewPDF(),
	}

	switch cfg.Backend {
	case types.BackendNative:
		return native, nil
	case types.BackendMarkitdown:
		md, err := NewMarkitdown(engine, cfg)
		if err != nil {
			return nil, err
		}
		return []Converter{md}, nil
	case types.BackendAuto, "":
		if engine == nil {
			return native, nil
		}
		md, err := NewMarkitdown(engine, cfg)
		if err != nil {
			return nil, err
		}
		return append(native, md), nil
	default:
		return nil, fmt.Errorf("unknown conversion backend %q: use auto, markitdown, or native", cfg.Backend)
	}
}
