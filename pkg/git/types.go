package git

import "time"

// ChangeKind classifies a file delta.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
	Renamed  ChangeKind = "renamed"
)

// FileChange is one file's delta within a diff.
type FileChange struct {
	Path      string
	OldPath   string // set for renames
	Kind      ChangeKind
	Additions int
	Deletions int
	Hunks     string // raw unified-diff hunk text, may be empty for binary files
	Binary    bool
}

// Commit is one commit's metadata plus its own diff as a logical sub-unit.
type Commit struct {
	SHA     string
	Author  string
	Email   string
	Date    time.Time
	Subject string
	Body    string
	Files   []FileChange
	PR      *PRRef // filled by the GitHub enrichment pass, nil otherwise
}

// PRRef links a commit to the pull request that merged it.
type PRRef struct {
	Number int
	Title  string
	URL    string
}

// Mode says where a ChangeSet was sourced from.
type Mode string

const (
	ModeUncommitted Mode = "uncommitted"
	ModeStaged      Mode = "staged"
	ModeHistory     Mode = "history"
)

// ChangeSet is the raw material for one invocation. It is immutable once
// produced by the extractor.
type ChangeSet struct {
	Mode    Mode
	Files   []FileChange
	Commits []Commit // history mode only
	Since   time.Time
	Until   time.Time
}

// Empty reports whether there is nothing to summarize.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Files) == 0 && len(cs.Commits) == 0
}

// TotalAdditions sums added lines across all files.
func (cs *ChangeSet) TotalAdditions() int {
	n := 0
	for _, f := range cs.Files {
		n += f.Additions
	}
	return n
}

// TotalDeletions sums removed lines across all files.
func (cs *ChangeSet) TotalDeletions() int {
	n := 0
	for _, f := range cs.Files {
		n += f.Deletions
	}
	return n
}

// RepoStatus is the current working-tree state.
type RepoStatus struct {
	Branch    string
	Staged    []string
	Modified  []string
	Untracked []string
	Dirty     bool
}
