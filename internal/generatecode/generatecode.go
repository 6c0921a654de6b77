package generatecode

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	beginToken = "@generated begin "
	endToken   = "@generated end "
	hashPrefix = "sync-"
	signedSep  = " - "
)

// Options describes a block to merge into a document.
type Options struct {
	// Tag names the block. It must be unique within the document and may not
	// contain whitespace.
	Tag string
	// NewSrc is the block body, inserted between the markers unmodified apart
	// from line endings.
	NewSrc string
	// Anchor selects the line the block is placed relative to. The first
	// matching line wins.
	Anchor Matcher
	// Offset moves the insertion point relative to the anchor: 0 puts the
	// block directly after the anchor line, -1 directly before it.
	Offset int
	// Comment is the line comment token of the target language, e.g. "#".
	Comment string
	// Generator signs the begin marker with the generator name and a hash of
	// NewSrc. Signed blocks are replaced when NewSrc changes instead of being
	// left alone.
	Generator string
}

// MergeResult is the outcome of Merge or Remove.
type MergeResult struct {
	Contents string
	DidMerge bool
	DidClear bool
}

// Changed reports whether Contents differs from the input document.
func (r MergeResult) Changed() bool {
	return r.DidMerge || r.DidClear
}

// Merge inserts opts.NewSrc into src wrapped in tagged markers. When a block
// with the same tag already exists the document is returned unchanged. When
// the anchor matches no line the returned error satisfies
// errors.Is(err, ErrNoMatch).
func Merge(src string, opts Options) (MergeResult, error) {
	if err := opts.validate(); err != nil {
		return MergeResult{}, err
	}

	doc := parseDocument(src)
	header := opts.beginMarker()

	didClear := false
	section, state := doc.section(opts.Tag)
	switch state {
	case sectionUnterminated:
		return MergeResult{}, unterminated(opts.Tag, section.Start)
	case sectionComplete:
		if opts.Generator == "" || strings.TrimSpace(doc.lines[section.Start]) == header {
			return MergeResult{Contents: src}, nil
		}
		// Signed block with stale contents.
		doc = doc.without(section)
		didClear = true
	}

	anchorLine, err := doc.find(opts.Anchor)
	if err != nil {
		return MergeResult{}, err
	}
	if anchorLine < 0 {
		return MergeResult{}, noMatch(opts.Tag, opts.Anchor)
	}

	block := make([]string, 0, 2+strings.Count(opts.NewSrc, "\n")+1)
	block = append(block, header)
	block = append(block, splitLines(opts.NewSrc)...)
	block = append(block, opts.endMarker())

	doc = doc.insert(anchorLine+1+opts.Offset, block, doc.crlfAt(anchorLine))

	return MergeResult{
		Contents: doc.String(),
		DidMerge: true,
		DidClear: didClear,
	}, nil
}

// Remove deletes the block tagged tag from src. A missing tag is not an
// error: the document is returned unchanged with DidClear false.
func Remove(src, tag string) MergeResult {
	doc := parseDocument(src)

	section, state := doc.section(tag)
	if state != sectionComplete {
		return MergeResult{Contents: src}
	}

	return MergeResult{
		Contents: doc.without(section).String(),
		DidClear: true,
	}
}

// Hash returns the signature embedded in signed begin markers for src.
func Hash(src string) string {
	sum := sha1.Sum([]byte(src))
	return hashPrefix + hex.EncodeToString(sum[:])
}

func (o Options) validate() error {
	if o.Tag == "" {
		return errors.New("generated block tag is required")
	}
	if strings.IndexFunc(o.Tag, unicode.IsSpace) >= 0 {
		return errors.Errorf("generated block tag %q must not contain whitespace", o.Tag)
	}
	if o.Comment == "" {
		return errors.Errorf("comment token is required for generated block %s", o.Tag)
	}
	if o.Anchor == nil {
		return errors.Errorf("anchor is required for generated block %s", o.Tag)
	}
	return nil
}

func (o Options) beginMarker() string {
	marker := o.Comment + " " + beginToken + o.Tag
	if o.Generator != "" {
		marker += fmt.Sprintf("%s%s (DO NOT MODIFY) %s", signedSep, o.Generator, Hash(o.NewSrc))
	}
	return marker
}

func (o Options) endMarker() string {
	return o.Comment + " " + endToken + o.Tag
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
