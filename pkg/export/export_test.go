package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/errs"
	"github.com/saint0x/ggsum/pkg/git"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	commits := []git.Commit{
		{
			SHA: "abcdef1234567890", Author: "dev",
			Date: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), Subject: "add cache",
			PR: &git.PRRef{Number: 42, URL: "https://github.com/o/r/pull/42"},
		},
		{
			SHA: "1234567abcdef", Author: "dev",
			Date: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), Subject: "fix parser",
		},
	}

	abs, err := WriteReport(path, "ggsum", 7, 2, "### 2024-03-05\n- cache work\n", commits)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("expected absolute path, got %q", abs)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# Progress Report: ggsum",
		"last 7 days",
		"- cache work",
		"`abcdef1` add cache",
		"[#42](https://github.com/o/r/pull/42)",
		"`1234567` fix parser",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report should contain %q", want)
		}
	}

	// The temp file used for the atomic write must not survive.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "report.md" {
		t.Errorf("unexpected leftovers in export dir: %v", entries)
	}
}

func TestWriteReport_NoCommitAppendixWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	abs, err := WriteReport(path, "ggsum", 7, 0, "nothing happened", nil)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	data, _ := os.ReadFile(abs)
	if strings.Contains(string(data), "## Commits") {
		t.Error("empty commit list should not produce an appendix")
	}
}

func TestWriteReport_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.md")

	_, err := WriteReport(path, "ggsum", 7, 0, "text", nil)
	if !errors.Is(err, errs.ErrExport) {
		t.Errorf("expected ErrExport, got %v", err)
	}
}
