package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"subsync/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	run := history.Run{
		ID:         "run-1",
		Target:     "/media/show",
		DelayMs:    1500,
		Growth:     1.0,
		Synced:     2,
		Skipped:    1,
		Confirmed:  true,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
	}
	docs := []history.DocumentOutcome{
		{RunID: run.ID, Path: "/media/show/e1.srt", Outcome: "synced"},
		{RunID: run.ID, Path: "/media/show/e2.srt", Outcome: "synced"},
		{RunID: run.ID, Path: "/media/show/e3.srt", Outcome: "skipped", Detail: "delay underflow"},
	}
	if err := store.RecordRun(ctx, run, docs); err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRuns returned %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Target != run.Target || got.DelayMs != run.DelayMs || got.Growth != run.Growth {
		t.Fatalf("run mismatch: %+v", got)
	}
	if got.Synced != 2 || got.Skipped != 1 || !got.Confirmed {
		t.Fatalf("counts mismatch: %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("started_at = %v, want %v", got.StartedAt, run.StartedAt)
	}

	outcomes, err := store.ListDocuments(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListDocuments returned error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("ListDocuments returned %d outcomes, want 3", len(outcomes))
	}
	if outcomes[2].Detail != "delay underflow" {
		t.Fatalf("skip detail = %q", outcomes[2].Detail)
	}
}

func TestListRunsNewestFirstWithLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		run := history.Run{
			ID:         id,
			Target:     "/x",
			Growth:     1.0,
			Confirmed:  true,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}
		if err := store.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("RecordRun(%s) returned error: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns returned %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Fatalf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestDeclinedRunIsRecordable(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := history.Run{
		ID:         "run-declined",
		Target:     "/x",
		DelayMs:    -400,
		Growth:     1.0,
		Confirmed:  false,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if err := store.RecordRun(ctx, run, nil); err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	runs, err := store.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 || runs[0].Confirmed {
		t.Fatalf("expected one unconfirmed run, got %+v", runs)
	}
}
