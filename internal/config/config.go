package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	vCfg   = viper.New()
	cfgDir string
)

const (
	envPrefix = "PREBUILD"

	generatorKey        = "generator"
	assumeAutolinkedKey = "assume_autolinked"

	DefaultGenerator = "prebuild"
)

// Load reads ~/.prebuild/config.yaml when present. Every key can be
// overridden with a PREBUILD_ prefixed environment variable.
func Load() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	return loadFrom(filepath.Join(home, ".prebuild"))
}

func loadFrom(dir string) error {
	cfgDir = dir

	vCfg.SetConfigName("config")
	vCfg.SetConfigType("yaml")
	vCfg.AddConfigPath(cfgDir)

	vCfg.SetEnvPrefix(envPrefix)
	vCfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vCfg.AutomaticEnv()

	vCfg.SetDefault(generatorKey, DefaultGenerator)
	vCfg.SetDefault(assumeAutolinkedKey, true)

	if err := vCfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// GetGenerator is the name written into signed generated block markers.
func GetGenerator() string {
	return vCfg.GetString(generatorKey)
}

// GetAssumeAutolinked is the default for treating native packages as
// autolinked when the app config does not list its autolinked modules.
func GetAssumeAutolinked() bool {
	return vCfg.GetBool(assumeAutolinkedKey)
}
