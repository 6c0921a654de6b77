// Package plan applies a batch of generated block edits described in YAML.
package plan

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/generatecode"
	"gopkg.in/yaml.v3"
)

type Action string

const (
	ActionMerge  Action = "merge"
	ActionRemove Action = "remove"
)

// Plan is the document read from a mods file.
type Plan struct {
	// Generator signs every merged block. Empty leaves blocks unsigned.
	Generator string `yaml:"generator,omitempty"`
	Mods      []Mod  `yaml:"mods"`
}

// Mod is a single merge or removal. File is relative to the project root.
type Mod struct {
	File     string `yaml:"file"`
	Action   Action `yaml:"action"`
	Tag      string `yaml:"tag"`
	Contents string `yaml:"contents,omitempty"`
	Anchor   string `yaml:"anchor,omitempty"`
	Engine   string `yaml:"engine,omitempty"`
	Offset   int    `yaml:"offset,omitempty"`
	Comment  string `yaml:"comment,omitempty"`

	matcher generatecode.Matcher
}

// Parse decodes and validates a plan. Every invalid mod is reported, not
// just the first.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(err, "failed to parse mods file")
	}

	if len(p.Mods) == 0 {
		return nil, errors.New("mods file has no mods")
	}

	var result *multierror.Error
	for i := range p.Mods {
		if err := p.Mods[i].prepare(); err != nil {
			result = multierror.Append(result, fmt.Errorf("mods[%d]: %w", i, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (m *Mod) prepare() error {
	if m.File == "" {
		return errors.New("file is required")
	}
	if m.Tag == "" {
		return errors.New("tag is required")
	}

	switch m.Action {
	case ActionRemove:
		return nil
	case ActionMerge:
	default:
		return errors.Errorf("unknown action %q (available options: [%s, %s])", m.Action, ActionMerge, ActionRemove)
	}

	if m.Anchor == "" {
		return errors.New("anchor is required to merge")
	}
	if m.Comment == "" {
		m.Comment = CommentFor(m.File)
		if m.Comment == "" {
			return errors.Errorf("comment is required for %s", m.File)
		}
	}

	matcher, err := generatecode.CompileMatcher(generatecode.Engine(m.Engine), m.Anchor)
	if err != nil {
		return err
	}
	m.matcher = matcher

	return nil
}

// apply runs the mod against the text of its file.
func (m *Mod) apply(src, generator string) (generatecode.MergeResult, error) {
	if m.Action == ActionRemove {
		return generatecode.Remove(src, m.Tag), nil
	}

	return generatecode.Merge(src, generatecode.Options{
		Tag:       m.Tag,
		NewSrc:    strings.TrimSuffix(m.Contents, "\n"),
		Anchor:    m.matcher,
		Offset:    m.Offset,
		Comment:   m.Comment,
		Generator: generator,
	})
}

var lineComments = map[string]string{
	".swift":      "//",
	".m":          "//",
	".mm":         "//",
	".h":          "//",
	".kt":         "//",
	".java":       "//",
	".gradle":     "//",
	".js":         "//",
	".ts":         "//",
	".rb":         "#",
	".yaml":       "#",
	".yml":        "#",
	".sh":         "#",
	".pbxproj":    "//",
	".properties": "#",
}

var lineCommentsByName = map[string]string{
	"Podfile": "#",
	"Gemfile": "#",
}

// CommentFor returns the line comment token for a file, or "" when the
// language is unknown or has no line comments.
func CommentFor(path string) string {
	if c, ok := lineCommentsByName[filepath.Base(path)]; ok {
		return c
	}
	return lineComments[strings.ToLower(filepath.Ext(path))]
}
