package generatecode

import (
	"slices"
	"strings"
)

// Section is a generated block located in a document. Start and End are the
// zero based line indexes of the begin and end markers.
type Section struct {
	Tag   string
	Start int
	End   int
	// Hash is the signature from a signed begin marker, empty for plain markers.
	Hash string
}

type sectionState int

const (
	sectionAbsent sectionState = iota
	sectionComplete
	sectionUnterminated
)

// document is a source file split on "\n". A trailing "\r" is kept apart
// from each line in cr so markers and anchors see the bare line while every
// line keeps its own ending. Its methods never modify the receiver's backing
// arrays.
type document struct {
	lines []string
	cr    []bool
}

func parseDocument(src string) document {
	lines := strings.Split(src, "\n")
	cr := make([]bool, len(lines))
	for i, line := range lines {
		if trimmed, ok := strings.CutSuffix(line, "\r"); ok {
			lines[i], cr[i] = trimmed, true
		}
	}
	return document{lines: lines, cr: cr}
}

func (d document) String() string {
	var sb strings.Builder
	for i, line := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		if d.cr[i] {
			sb.WriteByte('\r')
		}
	}
	return sb.String()
}

// find returns the index of the first line matched by m, or -1.
func (d document) find(m Matcher) (int, error) {
	for i, line := range d.lines {
		ok, err := m.Match(line)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// crlfAt reports whether lines inserted next to line i should end in "\r\n".
// A terminated line decides for itself; the unterminated last line defers to
// the majority of the document.
func (d document) crlfAt(i int) bool {
	if i >= 0 && i < len(d.lines)-1 {
		return d.cr[i]
	}

	crlf := 0
	for _, cr := range d.cr[:len(d.cr)-1] {
		if cr {
			crlf++
		}
	}
	return crlf*2 > len(d.cr)-1
}

func (d document) section(tag string) (Section, sectionState) {
	start := -1
	hash := ""
	for i, line := range d.lines {
		if start < 0 {
			if t, h, ok := parseBegin(line); ok && t == tag {
				start, hash = i, h
			}
			continue
		}
		if isEnd(line, tag) {
			return Section{Tag: tag, Start: start, End: i, Hash: hash}, sectionComplete
		}
	}
	if start >= 0 {
		return Section{Tag: tag, Start: start, End: -1, Hash: hash}, sectionUnterminated
	}
	return Section{}, sectionAbsent
}

// without drops the lines of s. A block that ends the file hands its final
// line's ending back to the line before it, undoing insert.
func (d document) without(s Section) document {
	cr := slices.Clone(d.cr)
	if s.End == len(d.lines)-1 && s.Start > 0 {
		cr[s.Start-1] = cr[s.End]
	}

	return document{
		lines: slices.Delete(slices.Clone(d.lines), s.Start, s.End+1),
		cr:    slices.Delete(cr, s.Start, s.End+1),
	}
}

// insert places block before line at. Appending past the last line
// terminates it and moves its ending to the block's final line.
func (d document) insert(at int, block []string, crlf bool) document {
	at = max(0, min(at, len(d.lines)))
	cr := slices.Clone(d.cr)

	crs := make([]bool, len(block))
	for i := range crs {
		crs[i] = crlf
	}
	if at == len(d.lines) && len(block) > 0 {
		crs[len(crs)-1] = cr[at-1]
		cr[at-1] = crlf
	}

	return document{
		lines: slices.Insert(slices.Clone(d.lines), at, block...),
		cr:    slices.Insert(cr, at, crs...),
	}
}

// Sections lists the well formed generated blocks of src in document order.
// Begin markers without a matching end marker are skipped.
func Sections(src string) []Section {
	doc := parseDocument(src)

	var sections []Section
	for i := 0; i < len(doc.lines); i++ {
		tag, hash, ok := parseBegin(doc.lines[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(doc.lines); j++ {
			if isEnd(doc.lines[j], tag) {
				sections = append(sections, Section{Tag: tag, Start: i, End: j, Hash: hash})
				i = j
				break
			}
		}
	}
	return sections
}

func parseBegin(line string) (tag, hash string, ok bool) {
	trimmed := strings.TrimSpace(line)
	i := strings.Index(trimmed, beginToken)
	if i < 0 {
		return "", "", false
	}

	rest := trimmed[i+len(beginToken):]
	tag, signature, signed := strings.Cut(rest, signedSep)
	if tag == "" || strings.ContainsAny(tag, " \t") {
		return "", "", false
	}
	if signed {
		if j := strings.LastIndex(signature, hashPrefix); j >= 0 {
			hash = signature[j:]
		}
	}
	return tag, hash, true
}

func isEnd(line, tag string) bool {
	return strings.HasSuffix(strings.TrimSpace(line), endToken+tag)
}
