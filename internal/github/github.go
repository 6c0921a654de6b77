// Package github reports prebuild runs to the GitHub Actions step summary.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-githubactions"
	"github.com/speakeasy-api/prebuild/internal/diff"
	"github.com/speakeasy-api/prebuild/internal/env"
	"github.com/speakeasy-api/prebuild/internal/log"
)

// GenerateChangesSummary adds a table of changed files, and their diffs, to
// the step summary. It does nothing outside GitHub Actions.
func GenerateChangesSummary(ctx context.Context, summary diff.Summary, dryRun bool) {
	defer func() {
		if r := recover(); r != nil {
			if env.IsGithubDebugMode() {
				log.From(ctx).Printf("::debug::%v", r)
			}
		}
	}()

	if !env.IsGithubAction() {
		return
	}

	githubactions.AddStepSummary(ChangesMarkdown(summary, dryRun))
}

// ChangesMarkdown renders the step summary body.
func ChangesMarkdown(summary diff.Summary, dryRun bool) string {
	title := "# Prebuild Changes"
	if dryRun {
		title += " (dry run)"
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")

	if len(summary) == 0 {
		sb.WriteString("All files are up to date.\n")
		return sb.String()
	}

	sb.WriteString("| File | Added | Removed |\n| --- | --- | --- |\n")
	for _, fd := range summary {
		fmt.Fprintf(&sb, "| `%s` | %d | %d |\n", fd.Path, fd.Stats.Added, fd.Stats.Removed)
	}

	for _, fd := range summary {
		fmt.Fprintf(&sb, "\n<details><summary>%s</summary>\n\n```diff\n%s\n```\n\n</details>\n", fd.Path, strings.TrimSuffix(fd.Text, "\n"))
	}

	return sb.String()
}
