// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textmify/internal/manifest"
)

var statusCmd = &cobra.Command{
	Use:   "status <dir>",
	Short: "Show conversion outcomes recorded in the ledger",
	Long: `Status lists the per-document conversion outcomes stored in the SQLite
ledger of an output directory: source, status, word count, and attempts.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := manifest.Open(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatStatusOutput(records, jsonOutput)
}

func formatStatusOutput(records []manifest.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-10s  %8s  %8s  %s\n",
		"Source", "Status", "Words", "Attempts", "Converted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))

	for _, r := range records {
		source := filepath.Base(r.Source)
		if len(source) > 40 {
			source = source[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-40s  %-10s  %8d  %8d  %s\n",
			source, r.Status, r.Words, r.Attempts, r.ConvertedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintf(os.Stdout, "\n%d document(s)\n", len(records))
	return nil
}

func init() {
	statusCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(statusCmd)
}
