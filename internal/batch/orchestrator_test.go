package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsync/internal/batch"
	"subsync/internal/delay"
	"subsync/internal/fileutil"
	"subsync/internal/history"
	"subsync/internal/resync"
)

const cueBody = `1
00:00:10,000 --> 00:00:12,000
Hello.

2
00:01:00,000 --> 00:01:02,000
World.
`

func newOrchestrator() *batch.Orchestrator {
	return &batch.Orchestrator{
		Store:      fileutil.DiskStore{},
		Extensions: []string{".srt"},
	}
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolveDirectoryFiltersUnsupported(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.srt":      cueBody,
		"b.srt":      cueBody,
		"c.srt":      cueBody,
		"notes.txt":  "not a subtitle",
		"poster.jpg": "binary-ish",
	})

	docs, err := newOrchestrator().Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("working set has %d documents, want 3: %v", len(docs), docs)
	}
	for _, doc := range docs {
		if !strings.HasSuffix(doc, ".srt") {
			t.Fatalf("unsupported document entered the working set: %s", doc)
		}
	}
}

func TestResolveSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.srt": cueBody})
	path := filepath.Join(dir, "a.srt")

	docs, err := newOrchestrator().Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(docs) != 1 || docs[0] != path {
		t.Fatalf("Resolve = %v, want [%s]", docs, path)
	}
}

func TestResolveRejectsUnsupportedSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "words"})

	_, err := newOrchestrator().Resolve(filepath.Join(dir, "a.txt"))
	if !errors.Is(err, batch.ErrUnsupportedFormat) {
		t.Fatalf("Resolve = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), "a.txt") {
		t.Fatalf("error does not identify the offending path: %v", err)
	}
}

func TestResolveMissingTarget(t *testing.T) {
	_, err := newOrchestrator().Resolve(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, batch.ErrNoFilesFound) {
		t.Fatalf("Resolve = %v, want ErrNoFilesFound", err)
	}
}

func TestResolveEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"readme.md": "x"})

	_, err := newOrchestrator().Resolve(dir)
	if !errors.Is(err, batch.ErrNoFilesFound) {
		t.Fatalf("Resolve = %v, want ErrNoFilesFound", err)
	}
}

func TestRunAppliesDelayToEveryDocument(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.srt": cueBody, "b.srt": cueBody})

	o := newOrchestrator()
	summary, err := o.Run(context.Background(), dir, delay.Constant(1000))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Synced != 2 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 2 synced", summary)
	}
	if !summary.Confirmed {
		t.Fatal("nil Confirm must accept the preview")
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.srt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "00:00:11,000 --> 00:00:13,000") {
		t.Fatalf("document not shifted:\n%s", data)
	}
}

func TestRunDeclinedLeavesBytesIdentical(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.srt": cueBody, "b.srt": cueBody})

	o := newOrchestrator()
	var previewed batch.Preview
	o.Confirm = func(p batch.Preview) (bool, error) {
		previewed = p
		return false, nil
	}

	summary, err := o.Run(context.Background(), dir, delay.Constant(1000))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Confirmed || summary.Synced != 0 || summary.Skipped != 0 {
		t.Fatalf("declined summary = %+v", summary)
	}
	if len(previewed.Documents) != 2 {
		t.Fatalf("preview listed %d documents, want 2", len(previewed.Documents))
	}
	if previewed.Model.InitialDelay != 1000 {
		t.Fatalf("preview model = %+v", previewed.Model)
	}

	for _, name := range []string{"a.srt", "b.srt"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != cueBody {
			t.Fatalf("%s changed despite declined confirmation", name)
		}
	}
}

func TestRunIsolatesPerDocumentFailures(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.srt": cueBody,
		// First cue at 3 s; a -5 s delay underflows and the guard skips it.
		"early.srt": "1\n00:00:03,000 --> 00:00:05,000\nToo early.\n",
	})

	o := newOrchestrator()
	summary, err := o.Run(context.Background(), dir, delay.Constant(-5000))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Synced != 1 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v, want 1 synced and 1 skipped", summary)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("failures = %v", summary.Failures)
	}
	if !errors.Is(summary.Failures[0].Err, resync.ErrDelayUnderflow) {
		t.Fatalf("failure = %v, want ErrDelayUnderflow", summary.Failures[0].Err)
	}
	if !strings.HasSuffix(summary.Failures[0].Path, "early.srt") {
		t.Fatalf("failure names wrong path: %s", summary.Failures[0].Path)
	}

	// The skipped document must be byte-identical to before the run.
	data, err := os.ReadFile(filepath.Join(dir, "early.srt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1\n00:00:03,000 --> 00:00:05,000\nToo early.\n" {
		t.Fatalf("skipped document was modified:\n%s", data)
	}

	// The good document was still synchronized.
	data, err = os.ReadFile(filepath.Join(dir, "good.srt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "00:00:05,000 -->") {
		t.Fatalf("good document not shifted:\n%s", data)
	}
}

func TestRunRecordsJournal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.srt": cueBody})

	journal, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	o := newOrchestrator()
	o.Journal = journal

	summary, err := o.Run(context.Background(), dir, delay.Constant(250))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	runs, err := journal.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("journal holds %d runs, want 1", len(runs))
	}
	if runs[0].ID != summary.RunID || runs[0].Synced != 1 || runs[0].DelayMs != 250 {
		t.Fatalf("journal run mismatch: %+v vs summary %+v", runs[0], summary)
	}

	docs, err := journal.ListDocuments(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("ListDocuments returned error: %v", err)
	}
	if len(docs) != 1 || docs[0].Outcome != "synced" {
		t.Fatalf("journal documents mismatch: %+v", docs)
	}
}

func TestRunStrictGuardSkipsLateUnderflow(t *testing.T) {
	dir := t.TempDir()
	// First cue survives the constant check, a late cue underflows under
	// compounding. Strict mode refuses before any write.
	doc := "1\n00:00:03,000 --> 00:00:05,000\nEarly.\n\n2\n00:10:00,000 --> 00:10:02,000\nLate.\n"
	writeFiles(t, dir, map[string]string{"a.srt": doc})

	o := newOrchestrator()
	o.GuardMode = resync.GuardStrict

	summary, err := o.Run(context.Background(), dir, delay.Model{InitialDelay: -1000, Growth: 1.00003})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Skipped != 1 || summary.Synced != 0 {
		t.Fatalf("summary = %+v, want the document skipped", summary)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.srt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != doc {
		t.Fatal("document was modified despite strict guard rejection")
	}
}
