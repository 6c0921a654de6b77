package plan

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/mods"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFiles bounds how many files are transformed at once.
const maxConcurrentFiles = 8

// Apply runs every mod of the plan against the project. Mods on the same
// file run in plan order inside a single read-transform-write cycle, while
// different files are processed concurrently. A failing mod leaves its file
// untouched and does not stop other files; all failures are returned together.
func Apply(ctx context.Context, project *mods.Project, p *Plan) ([]mods.FileResult, error) {
	// Spellings of the same path share one cycle.
	pathOf := func(m Mod) string { return project.Path(m.File) }
	files := lo.Uniq(lo.Map(p.Mods, func(m Mod, _ int) string { return pathOf(m) }))
	byFile := lo.GroupBy(p.Mods, pathOf)

	results := make([]mods.FileResult, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFiles)

	for i, file := range files {
		g.Go(func() error {
			results[i], errs[i] = applyFile(ctx, project, file, byFile[file], p.Generator)
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	var applied []mods.FileResult
	for i, err := range errs {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", project.Rel(files[i]), err))
			continue
		}
		applied = append(applied, results[i])
	}

	return applied, result.ErrorOrNil()
}

func applyFile(ctx context.Context, project *mods.Project, path string, fileMods []Mod, generator string) (mods.FileResult, error) {
	l := log.From(ctx).WithAssociatedFile(project.Rel(path))

	return project.WithFile(ctx, path, func(ctx context.Context, contents string) (string, error) {
		for _, m := range fileMods {
			res, err := m.apply(contents, generator)
			if err != nil {
				return "", errors.Wrapf(err, "failed to %s %s", m.Action, m.Tag)
			}
			if res.Changed() {
				contents = res.Contents
			}
			l.Info(string(m.Action), zap.String("tag", m.Tag), zap.Bool("merged", res.DidMerge), zap.Bool("cleared", res.DidClear))
		}
		return contents, nil
	})
}
