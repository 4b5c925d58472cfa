// Package export persists finished reports as Markdown files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/saint0x/ggsum/pkg/errs"
	"github.com/saint0x/ggsum/pkg/git"
)

// WriteReport renders a Markdown report and writes it to path. The file is
// written whole via a temp file and rename so an interrupted run never leaves
// a partial report behind.
func WriteReport(path, repoName string, days, totalCommits int, reportText string, commits []git.Commit) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Progress Report: %s\n\n", repoName)
	fmt.Fprintf(&b, "- **Period:** last %d days\n", days)
	fmt.Fprintf(&b, "- **Total commits:** %d\n", totalCommits)
	fmt.Fprintf(&b, "- **Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04"))
	b.WriteString("---\n\n")
	b.WriteString(strings.TrimSpace(reportText))
	b.WriteString("\n")

	if len(commits) > 0 {
		b.WriteString("\n---\n\n## Commits\n\n")
		for _, c := range commits {
			fmt.Fprintf(&b, "- `%s` %s (%s, %s)", shortSHA(c.SHA), c.Subject, c.Author, c.Date.Format("2006-01-02"))
			if c.PR != nil {
				fmt.Fprintf(&b, " — [#%d](%s)", c.PR.Number, c.PR.URL)
			}
			b.WriteString("\n")
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errs.Export(path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".ggsum-report-*")
	if err != nil {
		return "", errs.Export(abs, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return "", errs.Export(abs, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errs.Export(abs, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return "", errs.Export(abs, err)
	}
	return abs, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
