package generatecode

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// CodeNoMatch is reported when the anchor matches no line of the document.
	CodeNoMatch = "ERR_NO_MATCH"
	// CodeUnterminatedBlock is reported when a begin marker has no end marker.
	CodeUnterminatedBlock = "ERR_UNTERMINATED_BLOCK"
)

// Error is a merge failure carrying a stable machine readable code.
type Error struct {
	Code    string
	Tag     string
	Message string
}

var (
	ErrNoMatch           = &Error{Code: CodeNoMatch, Message: "anchor did not match any line"}
	ErrUnterminatedBlock = &Error{Code: CodeUnterminatedBlock, Message: "generated block has no end marker"}
)

func (e *Error) Error() string {
	if e.Tag == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (tag %s)", e.Message, e.Tag)
}

// Is matches any *Error with the same code, so errors.Is(err, ErrNoMatch)
// holds for every no-match failure regardless of tag or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func noMatch(tag string, anchor Matcher) *Error {
	return &Error{
		Code:    CodeNoMatch,
		Tag:     tag,
		Message: fmt.Sprintf("failed to match %q in contents", anchor.String()),
	}
}

func unterminated(tag string, line int) *Error {
	return &Error{
		Code:    CodeUnterminatedBlock,
		Tag:     tag,
		Message: fmt.Sprintf("generated block starting on line %d has no end marker", line+1),
	}
}
