// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the textmify CLI: it converts a folder
// of documents to Markdown and optionally packs the results into
// word-bounded bundles.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the textmify CLI. The positional folder is
// scanned for supported documents; each one becomes a Markdown artifact in
// the output directory.
var rootCmd = &cobra.Command{
	Use:   "textmify <folder>",
	Short: "Convert a folder of documents to Markdown",
	Long: `textmify converts every supported document in a folder (PDF, Office
formats, HTML, CSV, images, and more) into a Markdown artifact. Failed
conversions are retried with exponential backoff; a single bad file never
aborts the batch.

With --combine the resulting artifacts are packed into packed_<N>.md bundles,
each bounded by --max-words, preserving lexicographic file order.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoot,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./textmify.yaml or ~/.config/textmify/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.Flags().Bool("combine", false, "pack converted Markdown into packed_<N>.md bundles")
	rootCmd.Flags().Int("max-words", 100000, "maximum words per bundle when combining")
	rootCmd.Flags().String("output-dir", "", "directory for Markdown artifacts (default: <folder>/markdowns)")
	rootCmd.Flags().Int("retries", 3, "conversion attempts per document")
	rootCmd.Flags().Bool("no-ocr", false, "disable OCR in the markitdown container")
	rootCmd.Flags().String("artifacts-path", "", "local model cache for the conversion engine")
	rootCmd.Flags().Bool("force", false, "reconvert documents whose output already exists")
	rootCmd.Flags().String("backend", "auto", "conversion backend: auto, markitdown, or native")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("textmify")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "textmify"))
		}
	}

	viper.SetEnvPrefix("TEXTMIFY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI diagnostics logger. Messages go to stderr so that
// stdout stays clean for tabular and JSON output.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
