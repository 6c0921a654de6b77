package config

import (
	"bytes"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/speakeasy-api/prebuild/internal/utils"
	"github.com/spf13/viper"
)

// AppConfigFiles are the app config file names searched in a project root,
// in order.
var AppConfigFiles = []string{"app.json", "app.yaml", "app.yml"}

// AppConfig is the subset of the app config consumed by native config plugins.
type AppConfig struct {
	Name     string         `mapstructure:"name"`
	IOS      IOSConfig      `mapstructure:"ios"`
	Internal InternalConfig `mapstructure:"_internal"`
}

type IOSConfig struct {
	BundleIdentifier string           `mapstructure:"bundleIdentifier"`
	Config           IOSServiceConfig `mapstructure:"config"`
}

type IOSServiceConfig struct {
	GoogleMapsAPIKey string `mapstructure:"googleMapsApiKey"`
}

type InternalConfig struct {
	// AutolinkedModules lists the native modules linked by autolinking. Nil
	// means the list is unknown.
	AutolinkedModules []string `mapstructure:"autolinkedModules"`
}

// FindAppConfig returns the first app config file present in root.
func FindAppConfig(root string, exists func(string) bool) (string, error) {
	for _, name := range AppConfigFiles {
		path := filepath.Join(root, name)
		if exists(path) {
			return path, nil
		}
	}
	return "", errors.Errorf("no app config found in %s (looked for %v)", root, AppConfigFiles)
}

// ParseAppConfig decodes an app config. Configs wrapped in a top level
// "expo" key are unwrapped.
func ParseAppConfig(path string, data []byte) (AppConfig, error) {
	v := viper.New()
	v.SetConfigType(configType(path))

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return AppConfig{}, errors.Wrapf(err, "failed to parse app config %s", path)
	}

	if v.IsSet("expo") {
		if sub := v.Sub("expo"); sub != nil {
			v = sub
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, errors.Wrapf(err, "failed to decode app config %s", path)
	}

	return cfg, nil
}

func configType(path string) string {
	if utils.HasYAMLExt(path) {
		return "yaml"
	}
	return "json"
}
