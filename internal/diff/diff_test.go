package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  []byte
		expected bool
	}{
		{
			name:     "text content",
			content:  []byte("hello world\nthis is text"),
			expected: false,
		},
		{
			name:     "binary with null byte",
			content:  []byte("hello\x00world"),
			expected: true,
		},
		{
			name:     "empty content",
			content:  []byte{},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, isBinary(tc.content))
		})
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "LF unchanged",
			input:    "hello\nworld",
			expected: "hello\nworld",
		},
		{
			name:     "CRLF to LF",
			input:    "hello\r\nworld",
			expected: "hello\nworld",
		},
		{
			name:     "mixed endings",
			input:    "line1\r\nline2\rline3\n",
			expected: "line1\nline2\nline3\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, normalizeLineEndings(tc.input))
		})
	}
}

func TestCompute(t *testing.T) {
	t.Parallel()

	before := "platform :ios\nuse_native_modules!\nend\n"
	after := "platform :ios\nuse_native_modules!\n# @generated begin maps\npod 'maps'\n# @generated end maps\nend\n"

	fd, err := Compute("ios/Podfile", before, after)
	require.NoError(t, err)

	assert.Equal(t, "ios/Podfile", fd.Path)
	assert.Contains(t, fd.Text, "--- a/ios/Podfile")
	assert.Contains(t, fd.Text, "+++ b/ios/Podfile")
	assert.Contains(t, fd.Text, "+# @generated begin maps\n")
	assert.Equal(t, Stats{Added: 3, Removed: 0}, fd.Stats)
	assert.Equal(t, "+3/-0", fd.Stats.String())
}

func TestCompute_Unchanged(t *testing.T) {
	t.Parallel()

	fd, err := Compute("ios/Podfile", "a\n", "a\n")
	require.NoError(t, err)
	assert.Empty(t, fd.Text)
	assert.Equal(t, Stats{}, fd.Stats)
}

func TestCompute_Binary(t *testing.T) {
	t.Parallel()

	fd, err := Compute("ios/App/Info.plist", "bplist00\x00", "bplist00\x00\x01")
	require.NoError(t, err)
	assert.Equal(t, "(binary file)", fd.Text)
}

func TestSummary_Format(t *testing.T) {
	t.Parallel()

	summary := Summary{
		{
			Path:  "ios/Podfile",
			Stats: Stats{Added: 5, Removed: 2},
			Text:  "@@ -1,3 +1,6 @@\n unchanged\n-removed\n+added1\n+added2\n",
		},
		{Path: "ios/App/AppDelegate.swift"},
	}

	result := summary.Format(false)
	assert.Equal(t, "M ios/Podfile\n", result)

	result = summary.Format(true)
	assert.Contains(t, result, "M ios/Podfile (+5/-2)")
	assert.Contains(t, result, "@@")
	assert.Contains(t, result, "added2")
	assert.NotContains(t, result, "AppDelegate")
}
