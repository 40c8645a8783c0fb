// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/textmify/internal/retry"
	"github.com/pdiddy/textmify/pkg/types"
)

// fakeBackend implements Converter for testing. It can fail a configured
// number of times before succeeding.
type fakeBackend struct {
	ext        string
	markdown   string
	partial    bool
	failsLeft  int
	calls      int
	failForver bool
}

func (f *fakeBackend) Accepts(path string) bool {
	return strings.EqualFold(filepath.Ext(path), f.ext)
}

func (f *fakeBackend) Convert(_ context.Context, path string) (Result, error) {
	f.calls++
	if f.failForver || f.failsLeft > 0 {
		f.failsLeft--
		return Result{}, errors.New("engine crashed")
	}
	return Result{Markdown: f.markdown, Partial: f.partial}, nil
}

// testPolicy retries fast so tests do not sleep for real.
var testPolicy = retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2}

func sourceFile(t *testing.T, dir, name string) types.Document {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("source bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return types.NewDocument(path)
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		backend    *fakeBackend
		preCreate  bool
		force      bool
		wantStatus types.ConversionStatus
		wantCalls  int
	}{
		{
			name:       "successful conversion",
			backend:    &fakeBackend{ext: ".pdf", markdown: "# Title\n\nbody"},
			wantStatus: types.ConversionDone,
			wantCalls:  1,
		},
		{
			name:       "skips existing output",
			backend:    &fakeBackend{ext: ".pdf", markdown: "should not be called"},
			preCreate:  true,
			wantStatus: types.ConversionNone,
			wantCalls:  0,
		},
		{
			name:       "force reconverts existing output",
			backend:    &fakeBackend{ext: ".pdf", markdown: "fresh"},
			preCreate:  true,
			force:      true,
			wantStatus: types.ConversionDone,
			wantCalls:  1,
		},
		{
			name:       "transient failure recovered by retry",
			backend:    &fakeBackend{ext: ".pdf", markdown: "eventually", failsLeft: 2},
			wantStatus: types.ConversionDone,
			wantCalls:  3,
		},
		{
			name:       "failure after exhausted retries",
			backend:    &fakeBackend{ext: ".pdf", failForver: true},
			wantStatus: types.ConversionFailed,
			wantCalls:  3,
		},
		{
			name:       "partial output persisted without retry",
			backend:    &fakeBackend{ext: ".pdf", markdown: "most of it", partial: true},
			wantStatus: types.ConversionPartial,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			outDir := filepath.Join(tmp, "markdowns")
			doc := sourceFile(t, tmp, "report.pdf")

			if tt.preCreate {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(filepath.Join(outDir, "report.md"), []byte("existing"), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			p := NewPipeline([]Converter{tt.backend}, testPolicy, tt.force, nil)
			outcome := p.ConvertFile(context.Background(), doc, outDir)

			if outcome.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", outcome.Status, tt.wantStatus)
			}
			if tt.backend.calls != tt.wantCalls {
				t.Errorf("backend calls = %d, want %d", tt.backend.calls, tt.wantCalls)
			}

			if tt.wantStatus == types.ConversionDone || tt.wantStatus == types.ConversionPartial {
				data, err := os.ReadFile(outcome.Output)
				if err != nil {
					t.Fatalf("reading output: %v", err)
				}
				if string(data) != tt.backend.markdown {
					t.Errorf("output = %q, want %q", data, tt.backend.markdown)
				}
			}
		})
	}
}

func TestConvertFile_NoBackendAccepts(t *testing.T) {
	tmp := t.TempDir()
	doc := sourceFile(t, tmp, "report.docx")

	p := NewPipeline([]Converter{&fakeBackend{ext: ".pdf"}}, testPolicy, false, nil)
	outcome := p.ConvertFile(context.Background(), doc, filepath.Join(tmp, "markdowns"))

	if outcome.Status != types.ConversionFailed {
		t.Errorf("status = %q, want %q", outcome.Status, types.ConversionFailed)
	}
}

func TestConvertFile_CountsWords(t *testing.T) {
	tmp := t.TempDir()
	doc := sourceFile(t, tmp, "report.pdf")

	backend := &fakeBackend{ext: ".pdf", markdown: "five words are in here"}
	p := NewPipeline([]Converter{backend}, testPolicy, false, nil)
	outcome := p.ConvertFile(context.Background(), doc, filepath.Join(tmp, "markdowns"))

	if outcome.Words != 5 {
		t.Errorf("words = %d, want 5", outcome.Words)
	}
}

func TestConvertBatch(t *testing.T) {
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "markdowns")

	good := sourceFile(t, tmp, "a.pdf")
	skipped := sourceFile(t, tmp, "b.pdf")
	bad := sourceFile(t, tmp, "c.html")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "b.md"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	backends := []Converter{
		&fakeBackend{ext: ".pdf", markdown: "ok"},
		&fakeBackend{ext: ".html", failForver: true},
	}

	p := NewPipeline(backends, testPolicy, false, nil)
	outcomes, batch, err := p.ConvertBatch(context.Background(), []types.Document{good, skipped, bad}, outDir)
	if err != nil {
		t.Fatalf("ConvertBatch: %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(outcomes))
	}
	if batch.Converted != 1 || batch.Skipped != 1 || batch.Failed != 1 || batch.Partial != 0 {
		t.Errorf("batch = %+v, want 1 converted, 1 skipped, 1 failed", batch)
	}
	if !batch.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if batch.Total() != 3 {
		t.Errorf("total = %d, want 3", batch.Total())
	}
}

func TestConvertBatch_ContextCancelled(t *testing.T) {
	tmp := t.TempDir()
	doc := sourceFile(t, tmp, "a.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline([]Converter{&fakeBackend{ext: ".pdf", markdown: "ok"}}, testPolicy, false, nil)
	_, _, err := p.ConvertBatch(ctx, []types.Document{doc}, filepath.Join(tmp, "markdowns"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDiscover(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"b.pdf", "a.docx", "z.unsupported", ".hidden.pdf", "notes.html"} {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmp, "sub.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, total, err := Discover(tmp)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if total != 4 {
		t.Errorf("total = %d, want 4 (hidden files and directories excluded)", total)
	}

	var stems []string
	for _, d := range docs {
		stems = append(stems, d.Stem)
	}
	if strings.Join(stems, ",") != "a,b,notes" {
		t.Errorf("stems = %v, want [a b notes]", stems)
	}
}

func TestDiscover_MissingFolder(t *testing.T) {
	if _, _, err := Discover("/no/such/folder"); err == nil {
		t.Error("expected error for missing folder")
	}
}

func TestIsSupported(t *testing.T) {
	supported := []string{"x.pdf", "x.PDF", "x.docx", "x.html", "x.csv", "x.json", "x.md"}
	for _, name := range supported {
		if !IsSupported(name) {
			t.Errorf("IsSupported(%s) = false, want true", name)
		}
	}
	unsupported := []string{"x.exe", "x.zip", "x", "x.pdf.bak"}
	for _, name := range unsupported {
		if IsSupported(name) {
			t.Errorf("IsSupported(%s) = true, want false", name)
		}
	}
}

func TestChain(t *testing.T) {
	nativeCfg := types.ConversionConfig{Backend: types.BackendNative}
	chain, err := Chain(nativeCfg, nil)
	if err != nil {
		t.Fatalf("Chain(native): %v", err)
	}
	if len(chain) != 4 {
		t.Errorf("native chain length = %d, want 4", len(chain))
	}

	if _, err := Chain(types.ConversionConfig{Backend: "bogus"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}

	if _, err := Chain(types.ConversionConfig{Backend: types.BackendMarkitdown}, nil); err == nil {
		t.Error("expected error for markitdown backend without engine")
	}

	// Auto mode degrades to the native chain when no runtime is available.
	chain, err = Chain(types.ConversionConfig{Backend: types.BackendAuto}, nil)
	if err != nil {
		t.Fatalf("Chain(auto, nil engine): %v", err)
	}
	if len(chain) != 4 {
		t.Errorf("auto chain length without engine = %d, want 4", len(chain))
	}
}
