// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textmify/internal/pack"
)

var packCmd = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Pack Markdown artifacts into word-bounded bundles",
	Long: `Pack combines the Markdown files in a directory into packed_<N>.md
bundles. Files are taken in lexicographic order and never reordered; a bundle
is flushed when adding the next file would exceed --max-words. A single file
larger than the bound becomes its own bundle. Prior packed_* outputs are
ignored, so re-running does not pack bundles into bundles.`,
	Args: cobra.ExactArgs(1),
	RunE: runPack,
}

func runPack(cmd *cobra.Command, args []string) error {
	maxWords, _ := cmd.Flags().GetInt("max-words")
	log := newLogger(cmd)

	bundles, err := pack.New(nil, maxWords, log).Pack(args[0])
	if err != nil {
		return err
	}

	for _, b := range bundles {
		fmt.Println(b)
	}
	return nil
}

func init() {
	packCmd.Flags().Int("max-words", 100000, "maximum words per bundle")

	rootCmd.AddCommand(packCmd)
}
