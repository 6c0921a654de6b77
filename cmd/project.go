package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/speakeasy-api/prebuild/internal/charm/styles"
	"github.com/speakeasy-api/prebuild/internal/diff"
	"github.com/speakeasy-api/prebuild/internal/fs"
	"github.com/speakeasy-api/prebuild/internal/github"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/mods"
	"github.com/speakeasy-api/prebuild/internal/utils"
)

// stdout is where dry run diffs and listings go. Log lines go to stderr.
var stdout io.Writer = os.Stdout

func openProject(root string, dryRun bool) (*mods.Project, error) {
	if root == "" {
		root = "."
	}
	root = utils.SanitizeFilePath(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open project %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("project %s is not a directory", root)
	}

	project := mods.NewProject(root, fs.NewFileSystem())
	project.DryRun = dryRun
	return project, nil
}

// report prints the outcome of a run: a unified diff of every changed file
// for dry runs, one line per written file otherwise. In GitHub Actions the
// diffs also go to the step summary.
func report(ctx context.Context, project *mods.Project, results []mods.FileResult) error {
	logger := log.From(ctx)

	var summary diff.Summary
	for _, res := range results {
		if !res.Changed {
			continue
		}

		fd, err := diff.Compute(project.Rel(res.Path), res.Before, res.After)
		if err != nil {
			return err
		}
		summary = append(summary, fd)

		if !project.DryRun {
			logger.Successf("Updated %s (%s, %s)", fd.Path, fd.Stats, humanize.Bytes(uint64(len(res.After))))
		}
	}

	switch {
	case len(summary) == 0:
		logger.Info("Nothing to do, all files are up to date")
	case project.DryRun:
		out := summary.Format(true)
		if utils.IsInteractive() {
			out = styles.MakeSection("Dry run", out, styles.Colors.Blue) + "\n"
		}
		logger.WithWriter(stdout).Print(out)
		logger.WithInteractiveOnly().WithStyle(styles.DimmedItalic).Println("No files were written. Run again without --dry-run to apply these changes.")
	default:
		logger.WithInteractiveOnly().Println(styles.RenderSuccessMessage(
			fmt.Sprintf("prebuild updated %d of %d files", len(summary), len(results)),
			lo.Map(summary, func(fd diff.FileDiff, _ int) string { return fd.Path })...,
		))
	}

	github.GenerateChangesSummary(ctx, summary, project.DryRun)

	return nil
}
