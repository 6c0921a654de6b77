package generatecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMatcher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		engine  Engine
		pattern string
		line    string
		want    bool
		wantErr bool
	}{
		{name: "re2 default", engine: "", pattern: `\bsuper\.application\(\w+?, didFinishLaunchingWithOptions: \w+?\)`, line: "    return super.application(application, didFinishLaunchingWithOptions: launchOptions)", want: true},
		{name: "re2 miss", engine: EngineRE2, pattern: `^use_frameworks`, line: "  use_frameworks!", want: false},
		{name: "ecmascript lookahead", engine: EngineECMAScript, pattern: `use_native_modules(?!\s*#)`, line: "config = use_native_modules!", want: true},
		{name: "ecmascript negative lookahead miss", engine: EngineECMAScript, pattern: `pod(?! 'x')`, line: "pod 'x'", want: false},
		{name: "literal", engine: EngineLiteral, pattern: "@UIApplicationMain", line: "@UIApplicationMain", want: true},
		{name: "literal is not a regexp", engine: EngineLiteral, pattern: "a.c", line: "abc", want: false},
		{name: "re2 rejects lookahead", engine: EngineRE2, pattern: `a(?!b)`, wantErr: true},
		{name: "unknown engine", engine: "pcre", pattern: "a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := CompileMatcher(tt.engine, tt.pattern)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := m.Match(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatcherString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/use_native_modules/", MustRegexp("use_native_modules").String())
	assert.Equal(t, "@UIApplicationMain", Contains("@UIApplicationMain").String())

	m, err := ECMAScript(`a(?=b)`, 0)
	require.NoError(t, err)
	assert.Equal(t, "/a(?=b)/", m.String())
}
