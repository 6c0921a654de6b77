// Package mods gives config plugins read-transform-write access to the
// native files of a project.
package mods

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/fs"
	"github.com/speakeasy-api/prebuild/internal/locks"
	"github.com/speakeasy-api/prebuild/internal/log"
	"go.uber.org/zap"
)

const lockRetryDelay = 250 * time.Millisecond

// Language of an AppDelegate source file.
type Language string

const (
	LanguageSwift  Language = "swift"
	LanguageObjC   Language = "objc"
	LanguageObjCPP Language = "objcpp"
)

var appDelegateExtensions = map[string]Language{
	".swift": LanguageSwift,
	".mm":    LanguageObjCPP,
	".m":     LanguageObjC,
}

// directories under ios/ that never hold the app target
var ignoredTargetDirs = []string{"Pods", "build", "DerivedData"}

type Project struct {
	Root string
	FS   *fs.FileSystem
	// DryRun computes changes without writing them.
	DryRun bool
}

func NewProject(root string, fsys *fs.FileSystem) *Project {
	return &Project{Root: filepath.Clean(root), FS: fsys}
}

func (p *Project) Path(elem ...string) string {
	return filepath.Join(append([]string{p.Root}, elem...)...)
}

func (p *Project) Rel(path string) string {
	if rel, err := filepath.Rel(p.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (p *Project) PodfilePath() (string, error) {
	path := p.Path("ios", "Podfile")
	if !p.FS.Exists(path) {
		return "", errors.Errorf("could not find Podfile at %s", p.Rel(path))
	}
	return path, nil
}

// AppDelegatePath finds the AppDelegate of the app target and reports its
// language from the file extension.
func (p *Project) AppDelegatePath() (string, Language, error) {
	exts := []string{".swift", ".mm", ".m"}
	for _, ext := range exts {
		path, err := p.findTargetFile("AppDelegate" + ext)
		if err != nil {
			return "", "", err
		}
		if path != "" {
			return path, appDelegateExtensions[ext], nil
		}
	}
	return "", "", errors.Errorf("could not find AppDelegate in %s", p.Rel(p.Path("ios")))
}

func (p *Project) InfoPlistPath() (string, error) {
	path, err := p.findTargetFile("Info.plist")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", errors.Errorf("could not find Info.plist in %s", p.Rel(p.Path("ios")))
	}
	return path, nil
}

func (p *Project) findTargetFile(name string) (string, error) {
	matches, err := p.FS.Glob(p.Path("ios", "*", name))
	if err != nil {
		return "", errors.Wrapf(err, "failed to search for %s", name)
	}
	slices.Sort(matches)

	for _, match := range matches {
		target := filepath.Base(filepath.Dir(match))
		if slices.Contains(ignoredTargetDirs, target) || strings.HasSuffix(target, "Tests") {
			continue
		}
		return match, nil
	}
	return "", nil
}

// Lock holds the project lock until the returned function is called, so two
// prebuild runs never interleave writes to the same native files.
func (p *Project) Lock(ctx context.Context) (func(), error) {
	mu := locks.New(locks.ProjectOpts(p.Root))

	err := mu.Lock(ctx, lockRetryDelay, func(attempt int) {
		if attempt == 0 {
			log.From(ctx).Warn("waiting for another prebuild run to finish", zap.String("project", p.Root))
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock project")
	}

	return func() {
		if err := mu.Unlock(); err != nil {
			log.From(ctx).Warn("failed to release project lock", zap.Error(err))
		}
	}, nil
}
