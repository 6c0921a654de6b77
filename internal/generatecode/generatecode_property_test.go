package generatecode

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propertyAnchor = "ANCHOR"

// buildDocument places the anchor line at pos (modulo the line count) and
// ends line i in "\r\n" when crlf[i] is set, cycling through crlf.
func buildDocument(lines []string, pos int, crlf []bool) string {
	at := pos % (len(lines) + 1)
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, propertyAnchor)
	out = append(out, lines[at:]...)

	var sb strings.Builder
	for i, line := range out {
		if i > 0 {
			if len(crlf) > 0 && crlf[(i-1)%len(crlf)] {
				sb.WriteByte('\r')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func propertyOptions(tag, body string, offset int) Options {
	return Options{
		Tag:     tag,
		NewSrc:  body,
		Anchor:  Contains(propertyAnchor),
		Offset:  offset,
		Comment: "#",
	}
}

func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	lines := gen.SliceOf(gen.RegexMatch(`^[a-z ;(){}!_'=]{0,16}$`))
	tags := gen.RegexMatch(`^[a-z][a-z0-9-]{0,11}$`)
	bodies := gen.RegexMatch(`^[a-z '\n]{0,24}$`)
	positions := gen.IntRange(0, 64)
	offsets := gen.IntRange(-4, 4)
	endings := gen.SliceOf(gen.Bool())

	properties.Property("merge is idempotent", prop.ForAll(
		func(lines []string, pos int, crlf []bool, tag, body string, offset int) bool {
			src := buildDocument(lines, pos, crlf)
			opts := propertyOptions(tag, body, offset)

			first, err := Merge(src, opts)
			if err != nil || !first.DidMerge {
				return false
			}
			second, err := Merge(first.Contents, opts)
			if err != nil {
				return false
			}
			return !second.DidMerge && !second.DidClear && second.Contents == first.Contents
		},
		lines, positions, endings, tags, bodies, offsets,
	))

	properties.Property("remove undoes merge", prop.ForAll(
		func(lines []string, pos int, crlf []bool, tag, body string, offset int) bool {
			src := buildDocument(lines, pos, crlf)
			opts := propertyOptions(tag, body, offset)

			merged, err := Merge(src, opts)
			if err != nil {
				return false
			}
			removed := Remove(merged.Contents, tag)
			if !removed.DidClear || removed.Contents != src {
				return false
			}
			again, err := Merge(removed.Contents, opts)
			return err == nil && again.Contents == merged.Contents
		},
		lines, positions, endings, tags, bodies, offsets,
	))

	properties.Property("remove without tag is a no-op", prop.ForAll(
		func(lines []string, pos int, crlf []bool, tag string) bool {
			src := buildDocument(lines, pos, crlf)

			first := Remove(src, tag)
			second := Remove(first.Contents, tag)
			return !first.DidClear && first.Contents == src && second.Contents == src
		},
		lines, positions, endings, tags,
	))

	properties.Property("missing anchor reports ERR_NO_MATCH", prop.ForAll(
		func(lines []string, tag, body string) bool {
			src := strings.Join(lines, "\n")

			res, err := Merge(src, Options{Tag: tag, NewSrc: body, Anchor: Contains("NOT-PRESENT"), Comment: "//"})
			return CodeOf(err) == CodeNoMatch && res == MergeResult{}
		},
		lines, tags, bodies,
	))

	properties.TestingRun(t)
}
