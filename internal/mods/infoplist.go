package mods

import (
	"context"
	"maps"
	"reflect"

	"github.com/pkg/errors"
	"howett.net/plist"
)

// InfoPlist is the decoded top level dictionary of an Info.plist.
type InfoPlist map[string]any

type InfoPlistTransform func(ctx context.Context, infoPlist InfoPlist) (InfoPlist, error)

// WithInfoPlist decodes the plist at path, runs transform on a copy of its
// dictionary and re-encodes it in the original format when it changed.
func (p *Project) WithInfoPlist(ctx context.Context, path string, transform InfoPlistTransform) (FileResult, error) {
	data, err := p.FS.ReadFile(path)
	if err != nil {
		return FileResult{}, errors.Wrapf(err, "failed to read %s", p.Rel(path))
	}

	current := InfoPlist{}
	format, err := plist.Unmarshal(data, &current)
	if err != nil {
		return FileResult{}, errors.Wrapf(err, "failed to parse %s", p.Rel(path))
	}

	updated, err := transform(ctx, maps.Clone(current))
	if err != nil {
		return FileResult{}, err
	}

	res := FileResult{
		Path:    path,
		Before:  string(data),
		After:   string(data),
		Changed: !reflect.DeepEqual(current, updated),
	}
	if !res.Changed {
		return res, p.commit(ctx, res, data)
	}

	encoded, err := plist.MarshalIndent(map[string]any(updated), format, "\t")
	if err != nil {
		return FileResult{}, errors.Wrapf(err, "failed to encode %s", p.Rel(path))
	}
	res.After = string(encoded)

	if err := p.commit(ctx, res, encoded); err != nil {
		return FileResult{}, err
	}
	return res, nil
}
