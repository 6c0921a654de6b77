// Package ios holds config plugins that edit the native files of an iOS
// project.
package ios

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/speakeasy-api/prebuild/internal/config"
	"github.com/speakeasy-api/prebuild/internal/generatecode"
	"github.com/speakeasy-api/prebuild/internal/log"
	"github.com/speakeasy-api/prebuild/internal/mods"
	"github.com/speakeasy-api/prebuild/internal/resolve"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	MapsPackage = "react-native-maps"

	mapsImportTag = "react-native-maps-import"
	mapsInitTag   = "react-native-maps-init"
	mapsPodTag    = "react-native-maps"

	googleMapsInfoPlistKey = "GMSApiKey"
)

var (
	MatchInit          = generatecode.MustRegexp(`\bsuper\.application\(\w+?, didFinishLaunchingWithOptions: \w+?\)`)
	matchAppMain       = generatecode.MustRegexp(`@UIApplicationMain`)
	matchNativeModules = generatecode.MustRegexp(`use_native_modules`)
)

// MapsOptions configures the maps plugin.
type MapsOptions struct {
	// AssumeAutolinked treats react-native-maps as natively linked without
	// consulting the app config's autolinked module list.
	AssumeAutolinked bool
	// Generator signs generated blocks so they are refreshed when their
	// contents change. Empty leaves blocks unsigned.
	Generator string
}

// Maps wires react-native-maps and the Google Maps SDK into an iOS project.
type Maps struct {
	Project *mods.Project
	Config  config.AppConfig
	Options MapsOptions
}

// Apply runs the Info.plist, Podfile and AppDelegate mods. Each mod owns a
// different file so they run concurrently. Results are returned in that order.
func (m Maps) Apply(ctx context.Context) ([]mods.FileResult, error) {
	apiKey := GetGoogleMapsAPIKey(m.Config)
	installedPath, installed := resolve.Package(m.Project.FS, m.Project.Root, MapsPackage)
	linked := m.isAutolinked()

	log.From(ctx).Info("configuring maps",
		zap.Bool("googleMaps", apiKey != ""),
		zap.Bool("autolinked", linked),
		zap.String("packagePath", installedPath),
	)

	results := make([]mods.FileResult, 3)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		results[0], err = m.withGoogleMapsKey(ctx)
		return err
	})
	g.Go(func() (err error) {
		results[1], err = m.withMapsCocoaPods(ctx, linked && installed && apiKey != "")
		return err
	})
	g.Go(func() (err error) {
		results[2], err = m.withGoogleMapsAppDelegate(ctx, apiKey, linked && installed)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (m Maps) isAutolinked() bool {
	if m.Options.AssumeAutolinked {
		return true
	}

	modules := m.Config.Internal.AutolinkedModules
	return modules == nil || lo.Contains(modules, MapsPackage)
}

func (m Maps) withGoogleMapsKey(ctx context.Context) (mods.FileResult, error) {
	path, err := m.Project.InfoPlistPath()
	if err != nil {
		return mods.FileResult{}, err
	}

	return m.Project.WithInfoPlist(ctx, path, func(_ context.Context, infoPlist mods.InfoPlist) (mods.InfoPlist, error) {
		return SetGoogleMapsAPIKey(m.Config, infoPlist), nil
	})
}

func (m Maps) withMapsCocoaPods(ctx context.Context, useGoogleMaps bool) (mods.FileResult, error) {
	path, err := m.Project.PodfilePath()
	if err != nil {
		return mods.FileResult{}, err
	}

	return m.Project.WithFile(ctx, path, func(ctx context.Context, contents string) (string, error) {
		if !useGoogleMaps {
			return RemoveMapsCocoaPods(contents).Contents, nil
		}

		res, err := AddMapsCocoaPods(contents, m.Options.Generator)
		if err != nil {
			if errors.Is(err, generatecode.ErrNoMatch) {
				return "", errors.Wrap(err, "cannot add react-native-maps to the project's ios/Podfile because it's malformed. Report this with a copy of your project Podfile")
			}
			return "", err
		}
		return res.Contents, nil
	})
}

func (m Maps) withGoogleMapsAppDelegate(ctx context.Context, apiKey string, available bool) (mods.FileResult, error) {
	path, language, err := m.Project.AppDelegatePath()
	if err != nil {
		return mods.FileResult{}, err
	}

	return m.Project.WithFile(ctx, path, func(ctx context.Context, contents string) (string, error) {
		if apiKey == "" || !available {
			contents = RemoveGoogleMapsAppDelegateImport(contents).Contents
			return RemoveGoogleMapsAppDelegateInit(contents).Contents, nil
		}

		if language != mods.LanguageSwift {
			return "", fmt.Errorf("cannot setup Google Maps because the project AppDelegate is not a supported language: %s", language)
		}

		res, err := AddGoogleMapsAppDelegateImport(contents, m.Options.Generator)
		if err == nil {
			res, err = AddGoogleMapsAppDelegateInit(res.Contents, apiKey, m.Options.Generator)
		}
		if err != nil {
			if errors.Is(err, generatecode.ErrNoMatch) {
				return "", errors.Wrap(err, "cannot add Google Maps to the project's AppDelegate because it's malformed. Report this with a copy of your project AppDelegate")
			}
			return "", err
		}
		return res.Contents, nil
	})
}

// GetGoogleMapsAPIKey returns ios.config.googleMapsApiKey, or "" when unset.
func GetGoogleMapsAPIKey(cfg config.AppConfig) string {
	return cfg.IOS.Config.GoogleMapsAPIKey
}

// SetGoogleMapsAPIKey sets GMSApiKey from the app config. A stale key is
// dropped when the app config no longer has one.
func SetGoogleMapsAPIKey(cfg config.AppConfig, infoPlist mods.InfoPlist) mods.InfoPlist {
	apiKey := GetGoogleMapsAPIKey(cfg)

	updated := mods.InfoPlist(lo.OmitByKeys(map[string]any(infoPlist), []string{googleMapsInfoPlistKey}))
	if apiKey == "" {
		return updated
	}

	updated[googleMapsInfoPlistKey] = apiKey
	return updated
}

func AddGoogleMapsAppDelegateImport(src, generator string) (generatecode.MergeResult, error) {
	newSrc := []string{"#if canImport(GoogleMaps)", "import GoogleMaps", "#endif"}

	return generatecode.Merge(src, generatecode.Options{
		Tag:       mapsImportTag,
		NewSrc:    strings.Join(newSrc, "\n"),
		Anchor:    matchAppMain,
		Offset:    -1,
		Comment:   "//",
		Generator: generator,
	})
}

func RemoveGoogleMapsAppDelegateImport(src string) generatecode.MergeResult {
	return generatecode.Remove(src, mapsImportTag)
}

func AddGoogleMapsAppDelegateInit(src, apiKey, generator string) (generatecode.MergeResult, error) {
	newSrc := []string{"#if canImport(GoogleMaps)", fmt.Sprintf("GMSServices.provideAPIKey(%q)", apiKey), "#endif"}

	return generatecode.Merge(src, generatecode.Options{
		Tag:       mapsInitTag,
		NewSrc:    strings.Join(newSrc, "\n"),
		Anchor:    MatchInit,
		Offset:    -1,
		Comment:   "//",
		Generator: generator,
	})
}

func RemoveGoogleMapsAppDelegateInit(src string) generatecode.MergeResult {
	return generatecode.Remove(src, mapsInitTag)
}

// AddMapsCocoaPods adds the Google Maps pod of react-native-maps after the
// use_native_modules! call of a Podfile.
func AddMapsCocoaPods(src, generator string) (generatecode.MergeResult, error) {
	return generatecode.Merge(src, generatecode.Options{
		Tag:       mapsPodTag,
		NewSrc:    "  pod 'react-native-google-maps', path: File.dirname(`node --print \"require.resolve('react-native-maps/package.json')\"`)",
		Anchor:    matchNativeModules,
		Offset:    0,
		Comment:   "#",
		Generator: generator,
	})
}

func RemoveMapsCocoaPods(src string) generatecode.MergeResult {
	return generatecode.Remove(src, mapsPodTag)
}
