// Package git extracts repository state (status, diffs, history) by shelling
// out to the git binary. All queries are read-only except Commit, which the
// interactive flow uses to apply a generated message.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/saint0x/ggsum/pkg/errs"
	"github.com/saint0x/ggsum/pkg/log"
)

// Extractor runs git queries against one repository.
type Extractor struct {
	logger   *log.Logger
	repoPath string
}

// New validates that path is inside a git work tree and returns an Extractor
// for it.
func New(logger *log.Logger, path string) (*Extractor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}

	e := &Extractor{logger: logger, repoPath: abs}
	out, err := e.run(context.Background(), "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return nil, errs.NotAGitRepository(abs)
	}
	return e, nil
}

// RepoPath returns the absolute repository path.
func (e *Extractor) RepoPath() string {
	return e.repoPath
}

// RepoName returns the repository directory name.
func (e *Extractor) RepoName() string {
	return filepath.Base(e.repoPath)
}

// run executes a git command and returns stdout. A non-zero exit becomes a
// GitCommandError carrying the exit code and captured stderr.
func (e *Extractor) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", e.repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errs.GitCommand(args, exitErr.ExitCode(), stderr.String())
		}
		return "", errors.Wrap(err, "running git")
	}
	return stdout.String(), nil
}

// Branch returns the current branch name.
func (e *Extractor) Branch(ctx context.Context) (string, error) {
	out, err := e.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Status returns the working-tree state parsed from porcelain output.
func (e *Extractor) Status(ctx context.Context) (RepoStatus, error) {
	branch, err := e.Branch(ctx)
	if err != nil {
		return RepoStatus{}, err
	}

	out, err := e.run(ctx, "status", "--porcelain")
	if err != nil {
		return RepoStatus{}, err
	}

	st := RepoStatus{Branch: branch}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		code, name := line[:2], line[3:]

		if code == "??" {
			st.Untracked = append(st.Untracked, name)
			continue
		}
		if strings.ContainsRune("MADRC", rune(code[0])) {
			st.Staged = append(st.Staged, name)
		}
		if code[1] == 'M' || code[1] == 'D' {
			st.Modified = append(st.Modified, name)
		}
	}
	st.Dirty = len(st.Staged) > 0 || len(st.Modified) > 0
	return st, nil
}

// LastActivity returns the author timestamp of the most recent commit, or the
// zero time for an empty repository.
func (e *Extractor) LastActivity(ctx context.Context) (time.Time, error) {
	out, err := e.run(ctx, "log", "-1", "--format=%aI")
	if err != nil {
		return time.Time{}, err
	}
	raw := strings.TrimSpace(out)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing commit date %q", raw)
	}
	return t, nil
}

// Uncommitted returns a ChangeSet covering staged and unstaged changes. An
// empty set is a valid result, not an error.
func (e *Extractor) Uncommitted(ctx context.Context) (*ChangeSet, error) {
	diff, err := e.run(ctx, "diff", "HEAD")
	if err != nil {
		return nil, err
	}
	return &ChangeSet{
		Mode:  ModeUncommitted,
		Files: ParseUnifiedDiff(diff),
	}, nil
}

// Staged returns a ChangeSet covering only staged changes.
func (e *Extractor) Staged(ctx context.Context) (*ChangeSet, error) {
	diff, err := e.run(ctx, "diff", "--cached")
	if err != nil {
		return nil, err
	}
	return &ChangeSet{
		Mode:  ModeStaged,
		Files: ParseUnifiedDiff(diff),
	}, nil
}

// logFormat uses NUL field separators and \x01 record separators so subjects
// and bodies can contain anything short of control characters.
const logFormat = "%H%x00%an%x00%ae%x00%aI%x00%s%x00%b%x01"

// History walks commits on the current branch within the last N days. Each
// commit carries its own diff so reports can attribute work to commits and
// days.
func (e *Extractor) History(ctx context.Context, days int) (*ChangeSet, error) {
	now := time.Now()
	out, err := e.run(ctx, "log",
		fmt.Sprintf("--since=%d days ago", days),
		"--pretty=format:"+logFormat,
		"--date=iso-strict",
	)
	if err != nil {
		return nil, err
	}

	cs := &ChangeSet{
		Mode:  ModeHistory,
		Since: now.AddDate(0, 0, -days),
		Until: now,
	}

	for _, record := range strings.Split(out, "\x01") {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, "\x00", 6)
		if len(fields) < 5 {
			continue
		}

		date, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[3]))
		if err != nil {
			date = now
		}

		c := Commit{
			SHA:     fields[0],
			Author:  fields[1],
			Email:   fields[2],
			Date:    date,
			Subject: fields[4],
		}
		if len(fields) == 6 {
			c.Body = strings.TrimSpace(fields[5])
		}

		diff, err := e.run(ctx, "show", c.SHA, "--pretty=format:", "--patch")
		if err != nil {
			return nil, err
		}
		c.Files = ParseUnifiedDiff(diff)

		cs.Commits = append(cs.Commits, c)
		cs.Files = append(cs.Files, c.Files...)
	}
	return cs, nil
}

// RemoteURL returns the origin remote URL, or "" when none is configured.
func (e *Extractor) RemoteURL(ctx context.Context) string {
	out, err := e.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// Commit applies msg as a commit of the staged changes.
func (e *Extractor) Commit(ctx context.Context, msg string) error {
	_, err := e.run(ctx, "commit", "-m", msg)
	return err
}
