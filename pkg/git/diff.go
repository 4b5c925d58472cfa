package git

import (
	"strings"
)

// ParseUnifiedDiff splits raw `git diff` output into per-file changes. Each
// FileChange keeps its own hunk text so later stages can include or drop
// files independently.
func ParseUnifiedDiff(diff string) []FileChange {
	var changes []FileChange
	if strings.TrimSpace(diff) == "" {
		return changes
	}

	sections := splitFileSections(diff)
	for _, section := range sections {
		fc := parseFileSection(section)
		if fc.Path != "" {
			changes = append(changes, fc)
		}
	}
	return changes
}

// splitFileSections cuts a diff at each "diff --git" header.
func splitFileSections(diff string) []string {
	lines := strings.Split(diff, "\n")
	var sections []string
	var current []string

	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

func parseFileSection(section string) FileChange {
	fc := FileChange{Kind: Modified}
	lines := strings.Split(section, "\n")

	var hunkStart int
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			fc.Path = pathFromHeader(line)
		case strings.HasPrefix(line, "new file mode"):
			fc.Kind = Added
		case strings.HasPrefix(line, "deleted file mode"):
			fc.Kind = Deleted
		case strings.HasPrefix(line, "rename from "):
			fc.Kind = Renamed
			fc.OldPath = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			fc.Path = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "Binary files "):
			fc.Binary = true
		case strings.HasPrefix(line, "@@"):
			if hunkStart == 0 {
				hunkStart = i
			}
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			if hunkStart > 0 {
				fc.Additions++
			}
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			if hunkStart > 0 {
				fc.Deletions++
			}
		}
	}

	if hunkStart > 0 {
		fc.Hunks = strings.Join(lines[hunkStart:], "\n")
	}
	return fc
}

// pathFromHeader extracts the new-side path from a "diff --git a/x b/y" line.
func pathFromHeader(line string) string {
	parts := strings.Fields(line)
	if len(parts) < 4 {
		return ""
	}
	return strings.TrimPrefix(parts[3], "b/")
}
