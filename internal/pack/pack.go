// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pack groups converted Markdown artifacts into word-bounded bundles.
// Artifacts are processed in sorted filename order, never reordered and never
// split: a bundle is flushed the moment the next artifact would push it over
// the word budget, and an artifact whose own count exceeds the budget is
// emitted alone in an over-budget bundle.
package pack

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// BundlePrefix names bundle output files. Files carrying the prefix are
	// excluded from discovery so reruns never repack their own output.
	BundlePrefix = "packed_"

	// DefaultMaxWords bounds a bundle when no limit is configured.
	DefaultMaxWords = 100000

	// memberSeparator joins artifacts inside a bundle: a horizontal rule
	// with a blank line on each side.
	memberSeparator = "\n\n---\n\n"
)

// Artifact is one converted Markdown file eligible for packing.
type Artifact struct {
	// Name is the file stem, used as the member heading and the sort key.
	Name string

	// Words is the artifact word count.
	Words int

	// Content is the raw file text.
	Content string
}

// Packer partitions a directory of Markdown artifacts into ordered bundles.
// The zero value is not usable; construct with New. A Packer assumes
// single-writer access to the directory: bundle numbering restarts at zero on
// every call and overwrites bundles from earlier runs.
type Packer struct {
	fs       afero.Fs
	log      logrus.FieldLogger
	maxWords int
}

// New returns a Packer that reads and writes through fs and reports
// per-artifact problems through log. A nil fs means the host filesystem,
// maxWords <= 0 means DefaultMaxWords, and a nil log discards diagnostics.
func New(fs afero.Fs, maxWords int, log logrus.FieldLogger) *Packer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Packer{fs: fs, log: log, maxWords: maxWords}
}

// Pack discovers Markdown artifacts directly in dir and streams them into
// bundles named packed_0.md, packed_1.md, and so on, inside the same
// directory. It returns the bundle paths in creation order. An empty
// directory is not an error: Pack returns no paths and writes nothing.
// An unreadable artifact is logged and skipped; packing continues.
func (p *Packer) Pack(dir string) ([]string, error) {
	names, err := p.discover(dir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		p.log.Warnf("no markdown files to pack in %s", dir)
		return nil, nil
	}

	var (
		bundles []string
		members []string
		words   int
		index   int
	)

	flush := func() error {
		out := filepath.Join(dir, fmt.Sprintf("%s%d.md", BundlePrefix, index))
		body := strings.Join(members, memberSeparator)
		if err := afero.WriteFile(p.fs, out, []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing bundle %s: %w", out, err)
		}
		p.log.Debugf("wrote %s (%d artifacts, %d words)", out, len(members), words)
		bundles = append(bundles, out)
		index++
		members = nil
		words = 0
		return nil
	}

	for _, name := range names {
		art, err := p.load(dir, name)
		if err != nil {
			p.log.WithError(err).Errorf("skipping unreadable artifact %s", name)
			continue
		}

		// Flush before adding, but only when the bundle already has
		// content: an artifact larger than the budget still lands in a
		// bundle of its own.
		if len(members) > 0 && words+art.Words > p.maxWords {
			if err := flush(); err != nil {
				return bundles, err
			}
		}

		members = append(members, fmt.Sprintf("## %s\n\n%s", art.Name, art.Content))
		words += art.Words
	}

	if len(members) > 0 {
		if err := flush(); err != nil {
			return bundles, err
		}
	}
	return bundles, nil
}

// discover lists eligible artifact filenames in dir, sorted lexicographically.
// Directories, hidden files, non-Markdown files, and prior bundle output are
// excluded.
func (p *Packer) discover(dir string) ([]string, error) {
	infos, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("reading artifact directory %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		name := info.Name()
		switch {
		case info.IsDir():
		case strings.HasPrefix(name, "."):
		case filepath.Ext(name) != ".md":
		case strings.HasPrefix(name, BundlePrefix):
		default:
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// load reads one artifact and computes its word count. Invalid UTF-8 is
// replaced rather than rejected.
func (p *Packer) load(dir, name string) (Artifact, error) {
	data, err := afero.ReadFile(p.fs, filepath.Join(dir, name))
	if err != nil {
		return Artifact{}, err
	}
	content := strings.ToValidUTF8(string(data), "�")
	return Artifact{
		Name:    strings.TrimSuffix(name, filepath.Ext(name)),
		Words:   Words(content),
		Content: content,
	}, nil
}
