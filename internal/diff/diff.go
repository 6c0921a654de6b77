// Package diff renders the changes a mod made to a file as a unified diff.
package diff

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/speakeasy-api/prebuild/internal/charm/styles"
)

// FileDiff represents a modified file with its diff
type FileDiff struct {
	Path  string
	Text  string
	Stats Stats
}

// Stats contains statistics about a diff
type Stats struct {
	Added   int
	Removed int
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d/-%d", s.Added, s.Removed)
}

// Compute generates a unified diff between the before and after text of path.
// Identical inputs produce an empty Text.
func Compute(path, before, after string) (FileDiff, error) {
	fd := FileDiff{Path: path}

	if isBinary([]byte(before)) || isBinary([]byte(after)) {
		fd.Text = "(binary file)"
		return fd, nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(normalizeLineEndings(before)),
		B:        difflib.SplitLines(normalizeLineEndings(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fd, errors.Wrapf(err, "failed to diff %s", path)
	}

	fd.Text = text
	fd.Stats = countDiffStats(text)
	return fd, nil
}

// Render colours added, removed and hunk header lines of the diff.
func (fd FileDiff) Render() string {
	lines := strings.Split(strings.TrimSuffix(fd.Text, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = styles.Dimmed.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = styles.Added.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = styles.Removed.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = styles.Hunk.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Summary lists the files changed by a run.
type Summary []FileDiff

// Format returns one "M <path>" line per changed file, followed by its diff
// when showDiffs is set. Files with an empty diff are omitted.
func (s Summary) Format(showDiffs bool) string {
	var sb strings.Builder
	for _, fd := range s {
		if fd.Text == "" {
			continue
		}
		if showDiffs {
			fmt.Fprintf(&sb, "M %s (%s)\n", fd.Path, fd.Stats)
			sb.WriteString(fd.Render())
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "M %s\n", fd.Path)
		}
	}
	return sb.String()
}

// isBinary returns true if the content appears to be binary (contains null bytes).
func isBinary(content []byte) bool {
	checkLen := min(len(content), 512)
	for i := 0; i < checkLen; i++ {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

// normalizeLineEndings converts all line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// countDiffStats counts added and removed lines in a unified diff.
func countDiffStats(diffText string) Stats {
	var stats Stats
	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			stats.Added++
		} else if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			stats.Removed++
		}
	}
	return stats
}
