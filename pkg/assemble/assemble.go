// Package assemble shapes raw provider completions into task results. The
// only hard failure here is an empty completion; structural mismatches
// degrade gracefully instead of killing the invocation.
package assemble

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/saint0x/ggsum/pkg/errs"
)

// StatusSummary is the free-text result of the status task.
type StatusSummary struct {
	Text string
}

// CommitMessage is a subject line plus optional body.
type CommitMessage struct {
	Subject string
	Body    string
}

// String renders the message the way git expects it.
func (m CommitMessage) String() string {
	if m.Body == "" {
		return m.Subject
	}
	return m.Subject + "\n\n" + m.Body
}

// ReportEntry is one day's accomplishments.
type ReportEntry struct {
	Day     time.Time
	Bullets []string
}

// Report is an ordered sequence of day entries, most recent first. Raw keeps
// the full completion for export and Slack delivery.
type Report struct {
	Summary string
	Entries []ReportEntry
	Raw     string
}

// Status trims the completion and passes it through.
func Status(completion string) (*StatusSummary, error) {
	text := strings.TrimSpace(completion)
	if text == "" {
		return nil, errs.MalformedCompletion("empty status completion")
	}
	return &StatusSummary{Text: text}, nil
}

// Commit splits the completion into subject and body, enforcing the subject
// ceiling at a word boundary.
func Commit(completion string, subjectLimit int) (*CommitMessage, error) {
	text := stripFences(strings.TrimSpace(completion))
	if text == "" {
		return nil, errs.MalformedCompletion("empty commit completion")
	}

	lines := strings.SplitN(text, "\n", 2)
	msg := &CommitMessage{Subject: truncateAtWord(strings.TrimSpace(lines[0]), subjectLimit)}
	if len(lines) == 2 {
		msg.Body = strings.TrimSpace(lines[1])
	}
	return msg, nil
}

// ParseReport parses the expected day-grouped bullet structure. When the
// completion does not match, the whole text becomes a single ungrouped entry
// rather than an error.
func ParseReport(completion string) (*Report, error) {
	raw := strings.TrimSpace(completion)
	if raw == "" {
		return nil, errs.MalformedCompletion("empty report completion")
	}

	report := &Report{Raw: raw}
	var current *ReportEntry
	var summary []string
	inSummary := false

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			day, err := time.Parse("2006-01-02", strings.TrimSpace(strings.TrimPrefix(trimmed, "### ")))
			if err != nil {
				current = nil
				continue
			}
			report.Entries = append(report.Entries, ReportEntry{Day: day})
			current = &report.Entries[len(report.Entries)-1]
			inSummary = false
		case strings.HasPrefix(trimmed, "## "):
			inSummary = strings.Contains(strings.ToLower(trimmed), "summary")
			current = nil
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			if current != nil {
				current.Bullets = append(current.Bullets, strings.TrimSpace(trimmed[2:]))
			}
		case trimmed != "" && inSummary:
			summary = append(summary, trimmed)
		}
	}
	report.Summary = strings.Join(summary, " ")

	if len(report.Entries) == 0 {
		// Structural mismatch: keep everything as one ungrouped entry.
		report.Entries = []ReportEntry{{Bullets: []string{raw}}}
		return report, nil
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Day.After(report.Entries[j].Day)
	})
	return report, nil
}

// stripFences removes a wrapping markdown code fence, which some models emit
// despite instructions.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	}
	return text
}

// truncateAtWord shortens s to at most limit bytes without splitting a word.
// If the first word alone exceeds the limit it is cut hard, backed up to a
// rune boundary so multibyte text stays valid UTF-8.
func truncateAtWord(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := strings.LastIndex(s[:limit+1], " ")
	if cut <= 0 {
		for limit > 0 && !utf8.RuneStart(s[limit]) {
			limit--
		}
		return s[:limit]
	}
	return strings.TrimRight(s[:cut], " ,;:")
}
