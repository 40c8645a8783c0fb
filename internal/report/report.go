// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML summary of a conversion run next to the
// Markdown artifacts.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textmify/internal/convert"
	"github.com/pdiddy/textmify/internal/pack"
	"github.com/pdiddy/textmify/pkg/types"
)

// FileName is the report filename inside the output directory.
const FileName = "report.yaml"

// File is one document's line in the report.
type File struct {
	Source   string `yaml:"source"`
	Output   string `yaml:"output,omitempty"`
	Status   string `yaml:"status"`
	Words    int    `yaml:"words"`
	Attempts int    `yaml:"attempts"`
}

// Bundle is one packed output file in the report.
type Bundle struct {
	Path  string `yaml:"path"`
	Words int    `yaml:"words"`
}

// Report summarizes a whole run.
type Report struct {
	Folder      string    `yaml:"folder"`
	OutputDir   string    `yaml:"output_dir"`
	GeneratedAt time.Time `yaml:"generated_at"`

	Converted int `yaml:"converted"`
	Partial   int `yaml:"partial"`
	Skipped   int `yaml:"skipped"`
	Failed    int `yaml:"failed"`

	Files   []File   `yaml:"files"`
	Bundles []Bundle `yaml:"bundles,omitempty"`
}

// Build assembles a Report from conversion outcomes and bundle paths.
// Bundle word counts are read back from the written files; an unreadable
// bundle reports zero words rather than failing the report.
func Build(folder, outputDir string, outcomes []convert.FileOutcome, batch convert.BatchResult, bundles []string) Report {
	r := Report{
		Folder:      folder,
		OutputDir:   outputDir,
		GeneratedAt: time.Now().UTC(),
		Converted:   batch.Converted,
		Partial:     batch.Partial,
		Skipped:     batch.Skipped,
		Failed:      batch.Failed,
	}

	for _, o := range outcomes {
		f := File{
			Source:   o.Doc.Path,
			Status:   string(o.Status),
			Words:    o.Words,
			Attempts: o.Attempts,
		}
		if o.Status != types.ConversionFailed {
			f.Output = o.Output
		}
		r.Files = append(r.Files, f)
	}

	for _, path := range bundles {
		b := Bundle{Path: path}
		if data, err := os.ReadFile(path); err == nil {
			b.Words = pack.Words(string(data))
		}
		r.Bundles = append(r.Bundles, b)
	}

	return r
}

// Write renders the report to outputDir/report.yaml.
func Write(outputDir string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	path := filepath.Join(outputDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
