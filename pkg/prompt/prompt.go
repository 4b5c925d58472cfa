// Package prompt assembles the final prompt text for each task kind. Build is
// a pure function: the same payload and parameters always produce the same
// prompt and generation settings.
package prompt

import (
	"fmt"
	"strings"

	"github.com/saint0x/ggsum/pkg/chunk"
	"github.com/saint0x/ggsum/pkg/git"
)

// Task selects which artifact the provider is asked for.
type Task string

const (
	TaskStatus Task = "status"
	TaskCommit Task = "commit"
	TaskReport Task = "report"
)

// GenParams are the generation settings for one task.
type GenParams struct {
	MaxTokens   int
	Temperature float64
}

// Params carries the task inputs beyond the diff payload itself.
type Params struct {
	Days         int
	Commits      []git.Commit
	SubjectLimit int
	MaxTokens    int
	Temperature  float64
}

// maximum file paths listed explicitly before collapsing to a count
const maxListedFiles = 20

// Build produces the prompt text and generation parameters for task.
func Build(task Task, p chunk.Payload, params Params) (string, GenParams) {
	gen := GenParams{MaxTokens: params.MaxTokens, Temperature: params.Temperature}

	switch task {
	case TaskCommit:
		// Commit messages should be boring and reproducible.
		gen.Temperature = 0.2
		return commitPrompt(p, params), gen
	case TaskReport:
		return reportPrompt(p, params), gen
	default:
		return statusPrompt(p), gen
	}
}

func statusPrompt(p chunk.Payload) string {
	return fmt.Sprintf(`You are a coding assistant analyzing git changes.
Analyze the following uncommitted changes and provide a concise, human-readable summary.

Changed files:
%s

Statistics:
%s

Diff (may be truncated):
%s

Instructions:
1. Describe WHAT the developer is working on in 2-3 sentences.
2. List the key changes as bullet points (max 5 bullets).
3. Note any potential issues or incomplete work if visible.

Format your response as:
## Summary
[2-3 sentence overview]

## Key Changes
- [change 1]
- [change 2]

## Notes
[Observations about incomplete work or potential issues. Skip if none.]
`, fileList(p), stats(p), fence(p.Content))
}

func commitPrompt(p chunk.Payload, params Params) string {
	return fmt.Sprintf(`You are a coding assistant. Generate a conventional commit message for these changes.

Statistics:
%s

Diff:
%s

Instructions:
Generate a commit message following the Conventional Commits format:
- Type: feat, fix, docs, style, refactor, test, chore
- Scope: optional, in parentheses
- Description: imperative mood, lowercase, no period
- Subject line must stay under %d characters
- An optional body may follow after a blank line

Examples:
- feat(auth): add JWT token refresh mechanism
- fix: resolve null pointer in user validation

Respond with ONLY the commit message, nothing else.
`, stats(p), fence(p.Content), params.SubjectLimit)
}

func reportPrompt(p chunk.Payload, params Params) string {
	var log strings.Builder
	for _, c := range params.Commits {
		fmt.Fprintf(&log, "- [%s] %s (by %s)", c.Date.Format("2006-01-02"), c.Subject, c.Author)
		if c.PR != nil {
			fmt.Fprintf(&log, " [PR #%d: %s]", c.PR.Number, c.PR.Title)
		}
		log.WriteString("\n")
	}

	return fmt.Sprintf(`You are a coding assistant creating a developer progress report.

Period: last %d days
Total commits: %d

Commit history:
%s
Diff highlights (may be truncated):
%s

Instructions:
Create a brief, developer-friendly progress report that groups work by day.
For each day with activity, write a "### YYYY-MM-DD" heading followed by
bullet points of accomplishments, most recent day first. Summarize related
commits into single bullets where it helps readability.

Format your response as:

## Progress Summary
[2-3 sentence overview of accomplishments]

### 2024-01-02
- [accomplishment]

### 2024-01-01
- [accomplishment]
`, params.Days, len(params.Commits), log.String(), fence(p.Content))
}

func fileList(p chunk.Payload) string {
	var b strings.Builder
	for i, f := range p.Files {
		if i == maxListedFiles {
			fmt.Fprintf(&b, "  ... and %d more files\n", len(p.Files)-maxListedFiles)
			break
		}
		fmt.Fprintf(&b, "  - %s (+%d/-%d)\n", f.Path, f.Additions, f.Deletions)
	}
	return strings.TrimRight(b.String(), "\n")
}

func stats(p chunk.Payload) string {
	adds, dels := 0, 0
	for _, f := range p.Files {
		adds += f.Additions
		dels += f.Deletions
	}
	return fmt.Sprintf("%d files changed, +%d, -%d", len(p.Files), adds, dels)
}

func fence(content string) string {
	return "```diff\n" + content + "\n```"
}
