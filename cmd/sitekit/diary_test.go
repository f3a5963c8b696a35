package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terminator2-agent/sitekit/internal/diary"
)

const testDiary = `# Diary

## 2026-02-11 09:00 UTC
First cycle. Starting with M$1,000.

## 2026-02-12 18:30 UTC

## 2026-02-13 07:15 UTC
Bought NO on rain.
`

func writeTestDiary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "diary.md")
	if err := os.WriteFile(path, []byte(testDiary), 0o600); err != nil {
		t.Fatalf("failed to write diary: %v", err)
	}
	return path
}

func TestDiaryExportCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes the export file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		output := filepath.Join(dir, diary.FileName)

		out, _, err := executeCommand(t, "", "diary", "export", writeTestDiary(t, dir), "-o", output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Exported 2 entries") {
			t.Errorf("unexpected output: %q", out)
		}

		entries, err := diary.ReadFile(output)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[1].EntryNum != 2 || entries[1].Timestamp != "2026-02-13 07:15 UTC" {
			t.Errorf("unexpected second entry: %+v", entries[1])
		}
	})

	t.Run("prints to stdout", func(t *testing.T) {
		t.Parallel()

		out, _, err := executeCommand(t, "", "diary", "export", writeTestDiary(t, t.TempDir()), "-o", "-")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{`"entries"`, `"entry_num":1`, "Starting with M$1,000."} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("diary without entries", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.md")
		if err := os.WriteFile(path, []byte("# Diary\n"), 0o600); err != nil {
			t.Fatalf("failed to write diary: %v", err)
		}
		_, _, err := executeCommand(t, "", "diary", "export", path, "-o", "-")
		if !errors.Is(err, diary.ErrNoEntries) {
			t.Errorf("expected ErrNoEntries, got %v", err)
		}
	})

	t.Run("requires a file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeCommand(t, "", "diary", "export"); err == nil {
			t.Error("expected error without arguments")
		}
	})
}
