package generatecode

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// Matcher decides whether a single line is the anchor for an insertion.
// Engines that can fail while matching (timeouts, catastrophic backtracking)
// report it through the error, which Merge returns to the caller as is.
type Matcher interface {
	Match(line string) (bool, error)
	String() string
}

type Engine string

const (
	EngineRE2        Engine = "re2"
	EngineECMAScript Engine = "ecmascript"
	EngineLiteral    Engine = "literal"
)

var Engines = []string{string(EngineRE2), string(EngineECMAScript), string(EngineLiteral)}

// DefaultMatchTimeout bounds a single ECMAScript line match.
const DefaultMatchTimeout = time.Second

// CompileMatcher builds a matcher for pattern using the named engine. An empty
// engine selects RE2.
func CompileMatcher(engine Engine, pattern string) (Matcher, error) {
	switch engine {
	case EngineRE2, "":
		return Regexp(pattern)
	case EngineECMAScript:
		return ECMAScript(pattern, DefaultMatchTimeout)
	case EngineLiteral:
		return Contains(pattern), nil
	default:
		return nil, fmt.Errorf("unknown anchor engine %q (available options: [%s])", engine, strings.Join(Engines, ", "))
	}
}

type re2Matcher struct {
	re *regexp.Regexp
}

// Regexp compiles pattern with Go's RE2 engine.
func Regexp(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid anchor pattern %q", pattern)
	}
	return re2Matcher{re: re}, nil
}

// MustRegexp is like Regexp but panics on an invalid pattern.
func MustRegexp(pattern string) Matcher {
	return FromRegexp(regexp.MustCompile(pattern))
}

func FromRegexp(re *regexp.Regexp) Matcher {
	return re2Matcher{re: re}
}

func (m re2Matcher) Match(line string) (bool, error) {
	return m.re.MatchString(line), nil
}

func (m re2Matcher) String() string {
	return "/" + m.re.String() + "/"
}

type ecmaMatcher struct {
	re *regexp2.Regexp
}

// ECMAScript compiles pattern with JavaScript regular expression semantics,
// for anchors that rely on lookaround or backreferences. A zero timeout
// disables the per-match limit.
func ECMAScript(pattern string, timeout time.Duration) (Matcher, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid anchor pattern %q", pattern)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return ecmaMatcher{re: re}, nil
}

func (m ecmaMatcher) Match(line string) (bool, error) {
	return m.re.MatchString(line)
}

func (m ecmaMatcher) String() string {
	return "/" + m.re.String() + "/"
}

type literalMatcher string

// Contains matches lines containing substr.
func Contains(substr string) Matcher {
	return literalMatcher(substr)
}

func (m literalMatcher) Match(line string) (bool, error) {
	return strings.Contains(line, string(m)), nil
}

func (m literalMatcher) String() string {
	return string(m)
}
