// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/textmify/pkg/types"
)

// supportedExtensions lists the formats the conversion engine understands.
var supportedExtensions = map[string]bool{
	".pdf": true, ".docx": true, ".xlsx": true, ".pptx": true,
	".md": true, ".markdown": true, ".asciidoc": true, ".txt": true,
	".html": true, ".xhtml": true, ".htm": true, ".csv": true,
	".png": true, ".jpg": true, ".jpeg": true, ".tiff": true, ".bmp": true,
	".xml": true, ".json": true,
}

// SupportedFormats returns the supported extensions in sorted order, for
// user-facing messages.
func SupportedFormats() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether the file at path has a convertible extension.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Discover lists the supported documents directly inside folder, sorted by
// filename. Hidden files, directories, and unsupported formats are skipped.
// It also returns the total number of regular files seen, so callers can
// report "N supported out of M".
func Discover(folder string) ([]types.Document, int, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, 0, fmt.Errorf("reading input folder %s: %w", folder, err)
	}

	total := 0
	var docs []types.Document
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		total++
		if !IsSupported(name) {
			continue
		}
		docs = append(docs, types.NewDocument(filepath.Join(folder, name)))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, total, nil
}
