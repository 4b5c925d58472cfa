package assemble

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/errs"
)

func TestStatus(t *testing.T) {
	got, err := Status("  \n## Summary\nRefactored the parser.\n")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if got.Text != "## Summary\nRefactored the parser." {
		t.Errorf("unexpected text %q", got.Text)
	}
}

func TestStatus_Empty(t *testing.T) {
	_, err := Status("   \n\t ")
	if !errors.Is(err, errs.ErrMalformedCompletion) {
		t.Errorf("expected ErrMalformedCompletion, got %v", err)
	}
}

func TestCommit_SubjectAndBody(t *testing.T) {
	msg, err := Commit("feat(auth): add token refresh\n\nAdds refresh flow with retry.", 72)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if msg.Subject != "feat(auth): add token refresh" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if msg.Body != "Adds refresh flow with retry." {
		t.Errorf("unexpected body %q", msg.Body)
	}
	if want := "feat(auth): add token refresh\n\nAdds refresh flow with retry."; msg.String() != want {
		t.Errorf("String() = %q", msg.String())
	}
}

func TestCommit_StripsFences(t *testing.T) {
	msg, err := Commit("```\nfix: resolve panic\n```", 72)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if msg.Subject != "fix: resolve panic" {
		t.Errorf("fences should be stripped, got %q", msg.Subject)
	}
}

func TestCommit_SubjectCeilingWordBoundary(t *testing.T) {
	long := "feat: implement the extremely long subject line that absolutely exceeds every reasonable limit"
	msg, err := Commit(long, 40)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(msg.Subject) > 40 {
		t.Errorf("subject %q exceeds ceiling (%d chars)", msg.Subject, len(msg.Subject))
	}
	// No split words: the truncated subject must be a prefix of the original
	// ending exactly at a word boundary.
	if !strings.HasPrefix(long, msg.Subject) {
		t.Errorf("subject %q is not a prefix of the original", msg.Subject)
	}
	rest := long[len(msg.Subject):]
	if rest != "" && !strings.HasPrefix(strings.TrimLeft(rest, ",;:"), " ") {
		t.Errorf("truncation split a word: %q | %q", msg.Subject, rest)
	}
}

func TestCommit_OneGiantWord(t *testing.T) {
	msg, err := Commit(strings.Repeat("x", 100), 40)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(msg.Subject) != 40 {
		t.Errorf("expected hard cut at 40, got %d", len(msg.Subject))
	}

	// The hard cut must land on a rune boundary: 40 bytes falls in the middle
	// of the 14th three-byte rune here.
	msg, err = Commit(strings.Repeat("変", 40), 40)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(msg.Subject) != 39 {
		t.Errorf("expected cut backed up to the rune boundary at 39, got %d bytes", len(msg.Subject))
	}
	if !utf8.ValidString(msg.Subject) {
		t.Errorf("truncation produced invalid UTF-8: %q", msg.Subject)
	}
}

func TestParseReport_DayGrouped(t *testing.T) {
	completion := `## Progress Summary
Shipped the cache layer and fixed the parser.

### 2024-03-04
- fixed parser panic

### 2024-03-05
- added cache layer
- wired metrics
`
	report, err := ParseReport(completion)
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Entries))
	}
	// Most recent day first regardless of completion order.
	if report.Entries[0].Day.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("entries not ordered most-recent first: %v", report.Entries[0].Day)
	}
	if len(report.Entries[0].Bullets) != 2 {
		t.Errorf("expected 2 bullets for 2024-03-05, got %v", report.Entries[0].Bullets)
	}
	if report.Summary != "Shipped the cache layer and fixed the parser." {
		t.Errorf("unexpected summary %q", report.Summary)
	}
}

func TestParseReport_StructuralMismatchDegrades(t *testing.T) {
	completion := "The week went well. Lots of refactoring."
	report, err := ParseReport(completion)
	if err != nil {
		t.Fatalf("structural mismatch must not fail: %v", err)
	}
	if len(report.Entries) != 1 {
		t.Fatalf("expected single ungrouped entry, got %d", len(report.Entries))
	}
	if !report.Entries[0].Day.IsZero() {
		t.Error("ungrouped entry should have no day")
	}
	if report.Entries[0].Bullets[0] != completion {
		t.Errorf("full completion should survive, got %q", report.Entries[0].Bullets[0])
	}
}

func TestParseReport_Empty(t *testing.T) {
	_, err := ParseReport("")
	if !errors.Is(err, errs.ErrMalformedCompletion) {
		t.Errorf("expected ErrMalformedCompletion, got %v", err)
	}
}
