package audit

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/petasbytes/go-meshedit/internal/batch"
	"github.com/petasbytes/go-meshedit/internal/dispatch"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil && err != sql.ErrConnDone {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func sampleReport(id string) batch.Report {
	return batch.Report{
		RunID:     id,
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Results: []dispatch.ExecutionResult{
			{Success: true, Message: "Scaled vertices in box volume at [0, 0, 0] by factor 2", AffectedElements: []int{0, 1, 2}},
			{Success: false, Message: "Error executing apply_material_to_volume: unsupported volume type: cone"},
		},
		Warnings: []string{"command 1: volume center is far away"},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRecordAndGet(t *testing.T) {
	store := openTempStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return at }

	if err := store.Record(context.Background(), "calls.json", sampleReport("run-1")); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := store.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := Run{
		RunID: "run-1", Source: "calls.json", CreatedAt: at,
		Total: 2, Successful: 1, Failed: 1,
		Results: []Result{
			{Success: true, Message: "Scaled vertices in box volume at [0, 0, 0] by factor 2", Affected: 3},
			{Success: false, Message: "Error executing apply_material_to_volume: unsupported volume type: cone", Affected: -1},
		},
		Warnings: []string{"command 1: volume center is far away"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("run mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRecordKeepsEmptySelectionDistinctFromNone(t *testing.T) {
	store := openTempStore(t)
	r := batch.Report{RunID: "run-0", Total: 1, Succeeded: 1, Results: []dispatch.ExecutionResult{
		{Success: true, Message: "ok", AffectedElements: []int{}},
	}}
	if err := store.Record(context.Background(), "mcp", r); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := store.Get(context.Background(), "run-0")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Results[0].Affected != 0 {
		t.Fatalf("affected = %d, want 0", got.Results[0].Affected)
	}
}

func TestRecordDuplicateRunIsRejected(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	if err := store.Record(ctx, "a", sampleReport("dup")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record(ctx, "b", sampleReport("dup")); err == nil {
		t.Fatal("expected duplicate run id error")
	}
	got, err := store.Get(ctx, "dup")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Source != "a" || len(got.Results) != 2 {
		t.Fatalf("first record should survive intact: %+v", got)
	}
}

func TestRecordValidation(t *testing.T) {
	store := openTempStore(t)
	if err := store.Record(context.Background(), "x", batch.Report{}); err == nil {
		t.Fatal("expected error for empty run id")
	}
	var nilStore *Store
	if err := nilStore.Record(context.Background(), "x", sampleReport("r")); err == nil {
		t.Fatal("expected error for nil store")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Record(ctx, "x", sampleReport("r")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	store := openTempStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return at }
		if err := store.Record(context.Background(), "cli", sampleReport(id)); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	runs, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "third" || runs[1].RunID != "second" {
		t.Fatalf("recent = %+v", runs)
	}
	if runs[0].Results != nil {
		t.Fatal("recent should not load per-command rows")
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Record(context.Background(), "cli", sampleReport("kept")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if _, err := store.Get(context.Background(), "kept"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}
