// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/textmify/internal/container"
	"github.com/pdiddy/textmify/internal/convert"
	"github.com/pdiddy/textmify/internal/manifest"
	"github.com/pdiddy/textmify/internal/pack"
	"github.com/pdiddy/textmify/internal/report"
	"github.com/pdiddy/textmify/internal/retry"
	"github.com/pdiddy/textmify/pkg/types"
)

func runRoot(cmd *cobra.Command, args []string) error {
	folder := args[0]
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("folder %s: %w", folder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", folder)
	}

	cfg := conversionConfig(cmd, folder)
	combine, _ := cmd.Flags().GetBool("combine")
	maxWords, _ := cmd.Flags().GetInt("max-words")
	log := newLogger(cmd)

	docs, total, err := convert.Discover(folder)
	if err != nil {
		return err
	}
	log.Infof("found %d supported document(s) out of %d file(s) in %s", len(docs), total, folder)
	if len(docs) == 0 {
		log.Warnf("no supported files in %s", folder)
		log.Infof("supported formats: %s", strings.Join(convert.SupportedFormats(), ", "))
		return nil
	}

	engine, err := detectEngine(cfg, log)
	if err != nil {
		return err
	}
	chain, err := convert.Chain(cfg, engine)
	if err != nil {
		return err
	}

	policy := retry.Policy{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryDelay,
		Multiplier:  2,
	}
	pipeline := convert.NewPipeline(chain, policy, cfg.Force, log)

	ctx := context.Background()
	outcomes, batch, err := pipeline.ConvertBatch(ctx, docs, cfg.OutputDir)
	if err != nil {
		return err
	}

	if err := recordOutcomes(ctx, cfg.OutputDir, outcomes); err != nil {
		log.WithError(err).Warn("updating conversion ledger")
	}

	var bundles []string
	if combine {
		bundles, err = pack.New(nil, maxWords, log).Pack(cfg.OutputDir)
		if err != nil {
			return err
		}
	}

	rep := report.Build(folder, cfg.OutputDir, outcomes, batch, bundles)
	if err := report.Write(cfg.OutputDir, rep); err != nil {
		log.WithError(err).Warn("writing run report")
	}

	printSummary(batch, bundles, cfg.OutputDir)
	return nil
}

// conversionConfig assembles the conversion settings from flags. The output
// directory defaults to markdowns/ inside the scanned folder.
func conversionConfig(cmd *cobra.Command, folder string) types.ConversionConfig {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = filepath.Join(folder, "markdowns")
	}
	retries, _ := cmd.Flags().GetInt("retries")
	noOCR, _ := cmd.Flags().GetBool("no-ocr")
	artifactsPath, _ := cmd.Flags().GetString("artifacts-path")
	force, _ := cmd.Flags().GetBool("force")
	backend, _ := cmd.Flags().GetString("backend")

	return types.ConversionConfig{
		OutputDir:     outputDir,
		Backend:       types.ConversionBackend(backend),
		MaxRetries:    retries,
		RetryDelay:    2 * time.Second,
		DisableOCR:    noOCR,
		ArtifactsPath: artifactsPath,
		Force:         force,
	}
}

// detectEngine probes for a container runtime when the backend chain may need
// one. In auto mode a missing runtime degrades to the native extractors and
// the chain falls back accordingly; the markitdown backend requires one.
func detectEngine(cfg types.ConversionConfig, log *logrus.Logger) (container.Engine, error) {
	if cfg.Backend == types.BackendNative {
		return nil, nil
	}
	engine, err := container.Detect()
	if err != nil {
		if cfg.Backend == types.BackendMarkitdown {
			return nil, err
		}
		log.Warnf("no container runtime found, using native extractors only: %v", err)
		return nil, nil
	}
	return engine, nil
}

// recordOutcomes persists the per-document outcomes in the SQLite ledger next
// to the artifacts.
func recordOutcomes(ctx context.Context, outputDir string, outcomes []convert.FileOutcome) error {
	store, err := manifest.Open(outputDir)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now().UTC()
	for _, o := range outcomes {
		rec := manifest.Record{
			Source:      o.Doc.Path,
			Status:      string(o.Status),
			Words:       o.Words,
			Attempts:    o.Attempts,
			ConvertedAt: now,
		}
		if o.Status != types.ConversionFailed {
			rec.Output = o.Output
		}
		if err := store.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(batch convert.BatchResult, bundles []string, outputDir string) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println()
	fmt.Println(bold("Conversion summary"))
	fmt.Printf("  %s %d converted\n", green("✓"), batch.Converted)
	if batch.Partial > 0 {
		fmt.Printf("  %s %d partial\n", yellow("~"), batch.Partial)
	}
	if batch.Skipped > 0 {
		fmt.Printf("  %s %d skipped (already converted)\n", yellow("-"), batch.Skipped)
	}
	if batch.Failed > 0 {
		fmt.Printf("  %s %d failed\n", red("✗"), batch.Failed)
	}
	if len(bundles) > 0 {
		fmt.Printf("  %s %d bundle(s) written\n", green("✓"), len(bundles))
	}
	fmt.Printf("  output: %s\n", outputDir)
}
