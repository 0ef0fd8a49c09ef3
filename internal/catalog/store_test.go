// File path: internal/catalog/store_test.go
package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordConversionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := Conversion{
		Component:    "TodoList",
		SourcePath:   "src/TodoList.jsx",
		ClassPath:    "out/TodoList.component.ts",
		TemplatePath: "out/TodoList.component.html",
		StylePath:    "out/TodoList.component.css",
		States:       2,
		Methods:      1,
		Events:       1,
		DurationMS:   12,
	}
	fallbacks := []FallbackRecord{
		{Reason: "ternary-conditional", Snippet: "{ok ? <a/> : <b/>}"},
		{Reason: "unsupported-chain", Snippet: "{items.filter(Boolean).map(i => <li>{i}</li>)}"},
	}
	id, err := store.RecordConversion(ctx, rec, fallbacks)
	if err != nil {
		t.Fatalf("record conversion: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	got, gotFallbacks, err := store.ConversionByID(ctx, id)
	if err != nil {
		t.Fatalf("conversion by id: %v", err)
	}
	if got.Component != "TodoList" || got.States != 2 || got.Methods != 1 {
		t.Fatalf("unexpected conversion: %+v", got)
	}
	if got.Status != StatusConverted {
		t.Fatalf("expected default status %q, got %q", StatusConverted, got.Status)
	}
	if got.FallbackCount != 2 {
		t.Fatalf("expected fallback count derived from blocks, got %d", got.FallbackCount)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
	if len(gotFallbacks) != 2 {
		t.Fatalf("expected 2 fallbacks, got %d", len(gotFallbacks))
	}
	if gotFallbacks[0].Reason != "ternary-conditional" || gotFallbacks[1].Reason != "unsupported-chain" {
		t.Fatalf("unexpected fallback order: %+v", gotFallbacks)
	}
	if gotFallbacks[0].ConversionID != id {
		t.Fatalf("fallback not linked to conversion: %+v", gotFallbacks[0])
	}
}

func TestRecordConversionRequiresComponent(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.RecordConversion(context.Background(), Conversion{}, nil); err == nil {
		t.Fatalf("expected error for missing component")
	}
}

func TestListConversionsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		if _, err := store.RecordConversion(ctx, Conversion{Component: name}, nil); err != nil {
			t.Fatalf("record %s: %v", name, err)
		}
	}
	conversions, err := store.ListConversions(ctx, 2)
	if err != nil {
		t.Fatalf("list conversions: %v", err)
	}
	if len(conversions) != 2 {
		t.Fatalf("expected 2 conversions, got %d", len(conversions))
	}
	if conversions[0].Component != "Third" || conversions[1].Component != "Second" {
		t.Fatalf("unexpected order: %s, %s", conversions[0].Component, conversions[1].Component)
	}
}

func TestConversionByIDNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, _, err := store.ConversionByID(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFallbackStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.RecordConversion(ctx, Conversion{Component: "A"}, []FallbackRecord{
		{Reason: "ternary-conditional"},
		{Reason: "ternary-conditional"},
		{Reason: "multi-root-fragment"},
	}); err != nil {
		t.Fatalf("record A: %v", err)
	}
	if _, err := store.RecordConversion(ctx, Conversion{Component: "B"}, []FallbackRecord{
		{Reason: "ternary-conditional"},
	}); err != nil {
		t.Fatalf("record B: %v", err)
	}

	stats, err := store.FallbackStats(ctx)
	if err != nil {
		t.Fatalf("fallback stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 reasons, got %d", len(stats))
	}
	if stats[0].Reason != "ternary-conditional" || stats[0].Occurrences != 3 {
		t.Fatalf("unexpected top reason: %+v", stats[0])
	}
	if stats[1].Reason != "multi-root-fragment" || stats[1].Occurrences != 1 {
		t.Fatalf("unexpected second reason: %+v", stats[1])
	}
}

func TestPruneBeforeCascades(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	oldID, err := store.RecordConversion(ctx, Conversion{
		Component: "Stale",
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}, []FallbackRecord{{Reason: "ternary-conditional"}})
	if err != nil {
		t.Fatalf("record stale: %v", err)
	}
	if _, err := store.RecordConversion(ctx, Conversion{Component: "Fresh"}, nil); err != nil {
		t.Fatalf("record fresh: %v", err)
	}

	removed, err := store.PruneBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned conversion, got %d", removed)
	}
	if _, _, err := store.ConversionByID(ctx, oldID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected pruned conversion to be gone, got %v", err)
	}
	stats, err := store.FallbackStats(ctx)
	if err != nil {
		t.Fatalf("fallback stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected fallbacks to cascade, got %+v", stats)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := OpenWithConfig(Config{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
