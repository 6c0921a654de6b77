package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/speakeasy-api/prebuild/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const podfile = `platform :ios, '13.0'

target 'App' do
  config = use_native_modules!
end
`

const appDelegate = `import UIKit

@UIApplicationMain
class AppDelegate: UIResponder, UIApplicationDelegate {
  func application(_ application: UIApplication, didFinishLaunchingWithOptions launchOptions: [UIApplication.LaunchOptionsKey: Any]?) -> Bool {
    return super.application(application, didFinishLaunchingWithOptions: launchOptions)
  }
}
`

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>App</string>
</dict>
</plist>
`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for path, contents := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, command model.Command, args ...string) error {
	t.Helper()

	cmd, err := command.Init()
	require.NoError(t, err)

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs(args)
	return cmd.Execute()
}

// captureStdout redirects listings and diffs for the duration of the test.
// Tests using it must not run in parallel.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestMerge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Podfile")
	writeFiles(t, dir, map[string]string{"Podfile": podfile})

	args := []string{"--file", path, "--tag", "maps", "--contents", "  pod 'maps'", "--anchor", "use_native_modules"}
	require.NoError(t, execute(t, mergeCmd, args...))

	want := `platform :ios, '13.0'

target 'App' do
  config = use_native_modules!
# @generated begin maps
  pod 'maps'
# @generated end maps
end
`
	assert.Equal(t, want, readFile(t, path))

	require.NoError(t, execute(t, mergeCmd, args...))
	assert.Equal(t, want, readFile(t, path))

	require.NoError(t, execute(t, removeCmd, "--file", path, "--tag", "maps"))
	assert.Equal(t, podfile, readFile(t, path))

	require.NoError(t, execute(t, removeCmd, "--file", path, "--tag", "maps"))
	assert.Equal(t, podfile, readFile(t, path))
}

func TestRemove_MultipleTags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Podfile")
	writeFiles(t, dir, map[string]string{"Podfile": podfile})

	require.NoError(t, execute(t, mergeCmd, "--file", path, "--tag", "maps", "--contents", "pod 'maps'", "--anchor", "use_native_modules"))
	require.NoError(t, execute(t, mergeCmd, "--file", path, "--tag", "flipper", "--contents", "pod 'flipper'", "--anchor", "@generated end maps"))
	require.NoError(t, execute(t, mergeCmd, "--file", path, "--tag", "screens", "--contents", "pod 'screens'", "--anchor", "@generated end flipper"))

	require.NoError(t, execute(t, removeCmd, "--file", path, "--tag", "maps", "--tag", "absent,screens"))
	assert.Equal(t, `platform :ios, '13.0'

target 'App' do
  config = use_native_modules!
# @generated begin flipper
pod 'flipper'
# @generated end flipper
end
`, readFile(t, path))

	require.NoError(t, execute(t, removeCmd, "--file", path, "-t", "flipper"))
	assert.Equal(t, podfile, readFile(t, path))
}

func TestMerge_ContentsFileAndOffset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "AppDelegate.swift")
	writeFiles(t, dir, map[string]string{
		"AppDelegate.swift": appDelegate,
		"import.txt":        "import GoogleMaps\n",
	})

	require.NoError(t, execute(t, mergeCmd,
		"--file", path,
		"--tag", "maps-import",
		"--contents-file", filepath.Join(dir, "import.txt"),
		"--anchor", "@UIApplicationMain",
		"--engine", "literal",
		"--offset", "-1",
	))

	assert.Contains(t, readFile(t, path), "import UIKit\n\n// @generated begin maps-import\nimport GoogleMaps\n// @generated end maps-import\n@UIApplicationMain\n")
}

func TestMerge_NoMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Podfile")
	writeFiles(t, dir, map[string]string{"Podfile": podfile})

	err := execute(t, mergeCmd, "--file", path, "--tag", "maps", "--contents", "pod 'maps'", "--anchor", "use_frameworks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to match "/use_frameworks/" in contents`)
	assert.Equal(t, podfile, readFile(t, path))
}

func TestMerge_InvalidFlags(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"Podfile": podfile, "notes.txt": "anchor\n"})

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no contents",
			args:    []string{"--file", filepath.Join(dir, "Podfile"), "--tag", "a", "--anchor", "x"},
			wantErr: "exactly one of --contents, --contents-file or --contents-from-clipboard is required",
		},
		{
			name:    "two contents sources",
			args:    []string{"--file", filepath.Join(dir, "Podfile"), "--tag", "a", "--anchor", "x", "--contents", "a", "--contents-file", "b"},
			wantErr: "exactly one of --contents, --contents-file or --contents-from-clipboard is required",
		},
		{
			name:    "unknown comment token",
			args:    []string{"--file", filepath.Join(dir, "notes.txt"), "--tag", "a", "--anchor", "anchor", "--contents", "a"},
			wantErr: "cannot infer the comment token",
		},
		{
			name:    "unknown engine",
			args:    []string{"--file", filepath.Join(dir, "Podfile"), "--tag", "a", "--anchor", "x", "--contents", "a", "--engine", "pcre"},
			wantErr: `invalid value "pcre" for --engine`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := execute(t, mergeCmd, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge_DryRun(t *testing.T) {
	out := captureStdout(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "Podfile")
	writeFiles(t, dir, map[string]string{"Podfile": podfile})

	require.NoError(t, execute(t, mergeCmd, "--file", path, "--tag", "maps", "--contents", "pod 'maps'", "--anchor", "use_native_modules", "--dry-run"))

	assert.Equal(t, podfile, readFile(t, path))
	assert.Contains(t, out.String(), "M Podfile (+3/-0)")
	assert.Contains(t, out.String(), "+# @generated begin maps")
}

func TestSections(t *testing.T) {
	out := captureStdout(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "Podfile")
	writeFiles(t, dir, map[string]string{"Podfile": podfile})

	require.NoError(t, execute(t, mergeCmd, "--file", path, "--tag", "maps", "--contents", "pod 'maps'", "--anchor", "use_native_modules", "--sign"))
	require.NoError(t, execute(t, sectionsCmd, "--file", path, "--json"))

	var sections []section
	require.NoError(t, json.Unmarshal(out.Bytes(), &sections))
	require.Len(t, sections, 1)
	assert.Equal(t, "maps", sections[0].Tag)
	assert.Equal(t, 5, sections[0].Start)
	assert.Equal(t, 7, sections[0].End)
	assert.True(t, sections[0].Signed)
	assert.Regexp(t, `^sync-[0-9a-f]{40}$`, sections[0].Hash)
}

func TestApply(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ios/Podfile": podfile,
		"mods.yaml": `mods:
  - file: ios/Podfile
    action: merge
    tag: maps
    anchor: use_native_modules
    contents: |
      pod 'maps'
`,
	})

	require.NoError(t, execute(t, applyCmd, "--plan", filepath.Join(dir, "mods.yaml"), "--project", dir))
	assert.Contains(t, readFile(t, filepath.Join(dir, "ios", "Podfile")), "# @generated begin maps\npod 'maps'\n# @generated end maps\n")
}

func TestApply_InvalidPlan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"mods.yaml": "mods:\n  - file: ios/Podfile\n    action: merge\n"})

	err := execute(t, applyCmd, "--plan", filepath.Join(dir, "mods.yaml"), "--project", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mods[0]: tag is required")
}

func TestIOSMaps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app.json": `{"expo": {"name": "App", "ios": {"config": {"googleMapsApiKey": "key-123"}}}}`,
		"node_modules/react-native-maps/package.json": `{"name": "react-native-maps"}`,
		"ios/Podfile":                podfile,
		"ios/App/AppDelegate.swift":  appDelegate,
		"ios/App/Info.plist":         infoPlist,
		"ios/AppTests/Info.plist":    infoPlist,
		"ios/Pods/Target/Info.plist": infoPlist,
	})

	require.NoError(t, execute(t, iosCmd, "maps", "--project", dir, "--assume-autolinked"))

	assert.Contains(t, readFile(t, filepath.Join(dir, "ios", "Podfile")), "# @generated begin react-native-maps\n")
	delegate := readFile(t, filepath.Join(dir, "ios", "App", "AppDelegate.swift"))
	assert.Contains(t, delegate, "// @generated begin react-native-maps-import\n#if canImport(GoogleMaps)\nimport GoogleMaps\n#endif\n// @generated end react-native-maps-import\n@UIApplicationMain")
	assert.Contains(t, delegate, `GMSServices.provideAPIKey("key-123")`)
	assert.Contains(t, readFile(t, filepath.Join(dir, "ios", "App", "Info.plist")), "<key>GMSApiKey</key>")
	assert.Equal(t, infoPlist, readFile(t, filepath.Join(dir, "ios", "AppTests", "Info.plist")))

	// Dropping the key removes every change again.
	writeFiles(t, dir, map[string]string{"app.json": `{"expo": {"name": "App"}}`})
	require.NoError(t, execute(t, iosCmd, "maps", "--project", dir, "--assume-autolinked"))

	assert.Equal(t, podfile, readFile(t, filepath.Join(dir, "ios", "Podfile")))
	assert.Equal(t, appDelegate, readFile(t, filepath.Join(dir, "ios", "App", "AppDelegate.swift")))
	assert.NotContains(t, readFile(t, filepath.Join(dir, "ios", "App", "Info.plist")), "GMSApiKey")
}

func TestIOSMaps_MissingAppConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := execute(t, iosCmd, "maps", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no app config found")
}
