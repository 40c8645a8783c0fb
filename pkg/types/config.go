package types

import "time"

// ConversionBackend selects how documents are turned into Markdown.
type ConversionBackend string

const (
	// BackendAuto routes each file to the first backend that accepts it:
	// native extractors where available, the markitdown container otherwise.
	BackendAuto ConversionBackend = "auto"

	// BackendMarkitdown forces every file through the markitdown container.
	BackendMarkitdown ConversionBackend = "markitdown"

	// BackendNative uses only the built-in extractors (PDF, HTML, CSV,
	// plain Markdown). Files with no native extractor are reported failed.
	BackendNative ConversionBackend = "native"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// OutputDir is the directory where Markdown artifacts are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Backend selects the conversion backend: auto, markitdown, or native.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// MaxRetries is the number of attempts for a failed conversion (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryDelay is the base delay before the first retry; it doubles on
	// every subsequent attempt (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// DisableOCR turns off OCR in the markitdown container for faster PDF
	// conversion.
	DisableOCR bool `json:"disable_ocr" yaml:"disable_ocr"`

	// ArtifactsPath points the conversion engine at a local model cache.
	ArtifactsPath string `json:"artifacts_path,omitempty" yaml:"artifacts_path,omitempty"`

	// Force reconverts sources whose Markdown output already exists.
	Force bool `json:"force" yaml:"force"`
}

// PackConfig holds settings for the bundle-packing stage.
type PackConfig struct {
	// MaxWords bounds the total word count of a bundle (default 100000).
	// A single artifact larger than the bound is emitted alone, over budget.
	MaxWords int `json:"max_words" yaml:"max_words"`
}
