// File path: internal/workflow/runner_test.go
package workflow

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/advisor"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/llm/providers"
)

const counterSource = `import React, { useState } from 'react';

function Counter() {
  const [count, setCount] = useState(0);
  const increment = () => setCount(count + 1);
  return (
    <div className="counter">
      <p>{count}</p>
      <button onClick={increment}>Add</button>
    </div>
  );
}

export default Counter;
`

const bannerSource = `import React from 'react';

function Banner() {
  return (
    <div>
      {ready ? <b>Go</b> : <i>Wait</i>}
    </div>
  );
}

export default Banner;
`

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func openTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunConvertsDirectory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeSource(t, in, "Broken.jsx", "const nope = 1;\n")
	writeSource(t, in, "Counter.jsx", counterSource)
	store := openTestCatalog(t)
	runner := NewRunner(store, nil)

	summary, err := runner.Run(context.Background(), Request{InputDir: in, OutputDir: out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 1 {
		t.Fatalf("expected 1 converted and 1 failed, got %d/%d", summary.Converted, summary.Failed)
	}
	if len(summary.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(summary.Files))
	}
	if summary.Files[0].Status != catalog.StatusFailed || summary.Files[0].Error == "" {
		t.Fatalf("expected Broken.jsx to fail with an error, got %+v", summary.Files[0])
	}
	if summary.Files[1].Component != "Counter" || summary.Files[1].Status != catalog.StatusConverted {
		t.Fatalf("unexpected counter result: %+v", summary.Files[1])
	}

	for _, name := range []string{"Counter.component.ts", "Counter.component.html", "Counter.component.css"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected artifact %s: %v", name, err)
		}
	}

	conversions, err := store.ListConversions(context.Background(), 10)
	if err != nil {
		t.Fatalf("list conversions: %v", err)
	}
	if len(conversions) != 2 {
		t.Fatalf("expected 2 catalog records, got %d", len(conversions))
	}
	if conversions[0].Component != "Counter" || conversions[0].Status != catalog.StatusConverted {
		t.Fatalf("unexpected newest record: %+v", conversions[0])
	}
	if conversions[1].Component != "Broken" || conversions[1].Status != catalog.StatusFailed {
		t.Fatalf("unexpected failure record: %+v", conversions[1])
	}

	steps := summary.Steps
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Status != StepCompleted || steps[1].Status != StepCompleted {
		t.Fatalf("expected discover and convert completed, got %+v", steps)
	}
	if steps[2].Status != StepSkipped {
		t.Fatalf("expected advise skipped, got %s", steps[2].Status)
	}
}

func TestRunAdviseStep(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeSource(t, in, "Banner.jsx", bannerSource)
	store := openTestCatalog(t)
	runner := NewRunner(store, advisor.New(providers.NewLocalProvider()))

	summary, err := runner.Run(context.Background(), Request{InputDir: in, OutputDir: out, Advise: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Converted != 1 || summary.TotalFallbacks != 1 {
		t.Fatalf("expected 1 converted with 1 fallback, got %d/%d", summary.Converted, summary.TotalFallbacks)
	}
	file := summary.Files[0]
	if len(file.Notes) != 1 {
		t.Fatalf("expected 1 advisor note, got %d", len(file.Notes))
	}
	if file.Notes[0].Reason != "ternary-conditional" {
		t.Fatalf("unexpected note reason: %q", file.Notes[0].Reason)
	}
	if file.Notes[0].Guidance == "" {
		t.Fatalf("expected guidance text")
	}
	if summary.Steps[2].Status != StepCompleted {
		t.Fatalf("expected advise completed, got %s", summary.Steps[2].Status)
	}

	_, fallbacks, err := store.ConversionByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("conversion by id: %v", err)
	}
	if len(fallbacks) != 1 || fallbacks[0].Reason != "ternary-conditional" {
		t.Fatalf("unexpected recorded fallbacks: %+v", fallbacks)
	}
}

func TestRunWithoutStoreStillConverts(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeSource(t, in, "Counter.jsx", counterSource)
	runner := NewRunner(nil, nil)

	summary, err := runner.Run(context.Background(), Request{InputDir: in, OutputDir: out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Converted != 1 {
		t.Fatalf("expected 1 converted, got %d", summary.Converted)
	}
	if _, err := os.Stat(filepath.Join(out, "Counter.component.ts")); err != nil {
		t.Fatalf("expected artifact: %v", err)
	}
}

func TestRunRejectsConcurrentBatch(t *testing.T) {
	runner := NewRunner(nil, nil)
	runner.mu.Lock()
	runner.running = true
	runner.mu.Unlock()

	_, err := runner.Run(context.Background(), Request{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	if !errors.Is(err, ErrBatchRunning) {
		t.Fatalf("expected ErrBatchRunning, got %v", err)
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	_, err := NewRunner(nil, nil).Run(context.Background(), Request{InputDir: t.TempDir(), OutputDir: t.TempDir()})
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestRunMissingInputDirectory(t *testing.T) {
	req := Request{InputDir: filepath.Join(t.TempDir(), "missing"), OutputDir: t.TempDir()}
	_, err := NewRunner(nil, nil).Run(context.Background(), req)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunValidatesRequest(t *testing.T) {
	runner := NewRunner(nil, nil)
	if _, err := runner.Run(context.Background(), Request{OutputDir: "out"}); err == nil {
		t.Fatalf("expected error for missing input dir")
	}
	if _, err := runner.Run(context.Background(), Request{InputDir: "in"}); err == nil {
		t.Fatalf("expected error for missing output dir")
	}
}
