package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCueBody = `1
00:00:10,000 --> 00:00:12,000
Hello.

2
00:01:00,000 --> 00:01:02,000
World.
`

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSyncAppliesDelayWithYesFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "a.srt")
	if err := os.WriteFile(path, []byte(testCueBody), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "", "sync", "1000", "--target", dir, "--yes")
	if err != nil {
		t.Fatalf("sync returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Synchronised 1 file(s), skipped 0.") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "00:00:11,000 --> 00:00:13,000") {
		t.Fatalf("file not shifted:\n%s", data)
	}
}

func TestSyncDeclinedLeavesFileUntouched(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "a.srt")
	if err := os.WriteFile(path, []byte(testCueBody), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "n\n", "sync", "1000", "--target", dir)
	if err != nil {
		t.Fatalf("sync returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Aborted, nothing written.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Continue? [y/N]") {
		t.Fatalf("confirmation prompt missing:\n%s", out)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("preview does not list the document:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testCueBody {
		t.Fatal("file changed despite declined confirmation")
	}
}

func TestSyncConfirmedViaStdin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "a.srt")
	if err := os.WriteFile(path, []byte(testCueBody), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "y\n", "sync", "-2000", "--target", dir)
	if err != nil {
		t.Fatalf("sync returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Synchronised 1 file(s)") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "00:00:08,000 --> 00:00:10,000") {
		t.Fatalf("negative delay not applied:\n%s", data)
	}
}

func TestSyncEmptyTargetReportsNoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	out, err := runCommand(t, "", "sync", "1000", "--target", dir, "--yes")
	if err != nil {
		t.Fatalf("sync returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No subtitles to synchronise.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSyncRejectsGrowthBelowOne(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "", "sync", "1000", "--growth", "0.9", "--yes")
	if err == nil || !strings.Contains(err.Error(), "minimum growth factor") {
		t.Fatalf("sync = %v, want growth validation error", err)
	}
}

func TestSyncRejectsNonIntegerDelay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := runCommand(t, "", "sync", "1.5s", "--yes")
	if err == nil || !strings.Contains(err.Error(), "integer millisecond") {
		t.Fatalf("sync = %v, want delay parse error", err)
	}
}

func TestSyncReportsSkippedUnderflow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "early.srt")
	body := "1\n00:00:03,000 --> 00:00:05,000\nToo early.\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "", "sync", "-5000", "--target", dir, "--yes")
	if err != nil {
		t.Fatalf("sync returned error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Synchronised 0 file(s), skipped 1.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "delay underflow") {
		t.Fatalf("skip reason missing:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Fatal("underflowing document was modified")
	}
}
