// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"strings"
)

// ConversionStatus indicates the outcome of converting one source document.
type ConversionStatus string

const (
	// ConversionNone means the Markdown output already existed and the
	// source was skipped.
	ConversionNone ConversionStatus = "none"

	// ConversionDone means the engine reported full success.
	ConversionDone ConversionStatus = "converted"

	// ConversionPartial means the engine produced output but some content
	// may be missing. Partial output is still persisted.
	ConversionPartial ConversionStatus = "partial"

	// ConversionFailed means no usable output was produced after retries.
	ConversionFailed ConversionStatus = "failed"
)

// Document holds the identity of one source file queued for conversion.
type Document struct {
	// Path is the filesystem path to the source file.
	Path string `json:"path" yaml:"path"`

	// Stem is the filename without directory or extension. It names the
	// Markdown output and later serves as the artifact heading when the
	// output is packed.
	Stem string `json:"stem" yaml:"stem"`
}

// NewDocument builds a Document from a source path, deriving the stem.
func NewDocument(path string) Document {
	base := filepath.Base(path)
	return Document{
		Path: path,
		Stem: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}
