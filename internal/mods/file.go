package mods

import (
	"context"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/log"
	"go.uber.org/zap"
)

// FileResult describes one file touched by a mod.
type FileResult struct {
	Path    string
	Before  string
	After   string
	Changed bool
}

// Transform receives the current text of a file and returns the new text.
type Transform func(ctx context.Context, contents string) (string, error)

// WithFile reads path, runs transform and writes the result back when it
// differs from what was read.
func (p *Project) WithFile(ctx context.Context, path string, transform Transform) (FileResult, error) {
	data, err := p.FS.ReadFile(path)
	if err != nil {
		return FileResult{}, errors.Wrapf(err, "failed to read %s", p.Rel(path))
	}

	before := string(data)
	after, err := transform(ctx, before)
	if err != nil {
		return FileResult{}, err
	}

	res := FileResult{
		Path:    path,
		Before:  before,
		After:   after,
		Changed: after != before,
	}

	if err := p.commit(ctx, res, []byte(after)); err != nil {
		return FileResult{}, err
	}

	return res, nil
}

func (p *Project) commit(ctx context.Context, res FileResult, data []byte) error {
	l := log.From(ctx).With(zap.String("file", p.Rel(res.Path)))

	if !res.Changed {
		l.Info("no changes")
		return nil
	}
	if p.DryRun {
		l.Info("would update")
		return nil
	}

	if err := p.FS.WriteFile(res.Path, data); err != nil {
		return errors.Wrapf(err, "failed to write %s", p.Rel(res.Path))
	}
	l.Info("updated")
	return nil
}
