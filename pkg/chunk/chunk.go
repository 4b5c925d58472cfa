// Package chunk turns a ChangeSet into a bounded, information-dense prompt
// payload. Files are ranked by how much signal their diff carries and
// included whole-hunk in that order until the budget runs out; overflow files
// collapse to a one-line note instead of being cut mid-hunk.
package chunk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saint0x/ggsum/pkg/git"
)

// FileEntry records how one file ended up in the payload.
type FileEntry struct {
	Path      string
	Additions int
	Deletions int
	Full      bool // false when collapsed to a summary note
}

// Payload is the normalized textual content handed to the prompt builder.
type Payload struct {
	Content   string
	Truncated bool
	BytesUsed int
	Budget    int
	Files     []FileEntry
}

// generated-file suffixes that carry little semantic signal per byte.
var lowSignalSuffixes = []string{
	"go.sum", "package-lock.json", "yarn.lock", "Cargo.lock",
	".min.js", ".min.css", ".pb.go", "_generated.go", ".snap",
}

// Score ranks a file by lines changed, discounted for binary and generated
// content. Exported so tests can pin the ordering.
func Score(f git.FileChange) float64 {
	s := float64(f.Additions + f.Deletions)
	if f.Binary {
		return 0.1
	}
	for _, suffix := range lowSignalSuffixes {
		if strings.HasSuffix(f.Path, suffix) {
			return s * 0.05
		}
	}
	if strings.Contains(f.Path, "vendor/") || strings.Contains(f.Path, "node_modules/") {
		return s * 0.05
	}
	return s
}

// piece is one rendered fragment of the payload. Per-file notes can be
// reclaimed later to make room for the aggregate tail line.
type piece struct {
	text string
	note bool
	file git.FileChange
}

// Normalize builds a Payload from cs within budget characters. Notes count
// against the budget like full blocks do; once it is exhausted the remaining
// files collapse into a single aggregate line.
//
// Files are processed in strictly non-increasing Score order, ties broken by
// path, so output is deterministic for a given ChangeSet.
func Normalize(cs *git.ChangeSet, budget int) Payload {
	files := make([]git.FileChange, len(cs.Files))
	copy(files, cs.Files)

	sort.SliceStable(files, func(i, j int) bool {
		si, sj := Score(files[i]), Score(files[j])
		if si != sj {
			return si > sj
		}
		return files[i].Path < files[j].Path
	})

	p := Payload{Budget: budget}
	var pieces []piece
	used := 0
	aggFiles, aggLines := 0, 0

	for _, f := range files {
		entry := FileEntry{Path: f.Path, Additions: f.Additions, Deletions: f.Deletions}

		if block := renderBlock(f); !f.Binary && used+len(block) <= budget {
			pieces = append(pieces, piece{text: block, file: f})
			used += len(block)
			entry.Full = true
			p.Files = append(p.Files, entry)
			continue
		}

		// A binary file has no hunk to drop, so it does not count as
		// truncation.
		if !f.Binary {
			p.Truncated = true
		}

		if note := renderNote(f); aggFiles == 0 && used+len(note) <= budget {
			pieces = append(pieces, piece{text: note, note: true, file: f})
			used += len(note)
		} else {
			aggFiles++
			aggLines += f.Additions + f.Deletions
		}
		p.Files = append(p.Files, entry)
	}

	if aggFiles > 0 {
		agg := renderAggregate(aggFiles, aggLines)
		// Reclaim trailing notes until the aggregate line fits.
		for used+len(agg) > budget && len(pieces) > 0 && pieces[len(pieces)-1].note {
			last := pieces[len(pieces)-1]
			pieces = pieces[:len(pieces)-1]
			used -= len(last.text)
			aggFiles++
			aggLines += last.file.Additions + last.file.Deletions
			agg = renderAggregate(aggFiles, aggLines)
		}
		pieces = append(pieces, piece{text: agg})
	}

	var b strings.Builder
	for _, pc := range pieces {
		b.WriteString(pc.text)
	}
	p.Content = b.String()
	p.BytesUsed = len(p.Content)
	return p
}

// renderBlock is the full representation: header plus hunks.
func renderBlock(f git.FileChange) string {
	var b strings.Builder
	b.WriteString(header(f))
	if f.Hunks != "" {
		b.WriteString(f.Hunks)
		if !strings.HasSuffix(f.Hunks, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// renderNote is the collapsed representation for overflow or binary files.
func renderNote(f git.FileChange) string {
	return fmt.Sprintf("%s: %d lines changed (diff omitted)\n\n", f.Path, f.Additions+f.Deletions)
}

// renderAggregate is the single tail line for files that did not even get a
// per-file note.
func renderAggregate(files, lines int) string {
	return fmt.Sprintf("... and %d more files, %d lines changed (diffs omitted)\n", files, lines)
}

func header(f git.FileChange) string {
	switch f.Kind {
	case git.Renamed:
		return fmt.Sprintf("=== %s -> %s (%s, +%d/-%d)\n", f.OldPath, f.Path, f.Kind, f.Additions, f.Deletions)
	default:
		return fmt.Sprintf("=== %s (%s, +%d/-%d)\n", f.Path, f.Kind, f.Additions, f.Deletions)
	}
}
