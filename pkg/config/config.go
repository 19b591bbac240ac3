// Package config loads operator defaults for extedit: built-in defaults,
// then a YAML file under the user's home directory, then environment
// variables, then command flags — in that order of increasing precedence,
// merged with spf13/viper the way the teacher's own CLI layer merges its
// TOML config over built-in defaults.
package config

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the operator-facing defaults extedit reads at startup.
type Config struct {
	Color        bool   `mapstructure:"color"`
	NumbersBase  string `mapstructure:"numbers-base"` // "dec" or "hex"
	BytesPerRow  int    `mapstructure:"bytes-per-row"`
	DefaultWrite bool   `mapstructure:"default-write"`
}

const (
	configDirName  = ".config/extedit"
	configFileName = "config"
	configFileType = "yaml"
)

// Load builds a Config from built-in defaults, $HOME/.config/extedit/config.yaml
// when present, EXTEDIT_-prefixed environment variables, and finally the
// flags in fs (bound with viper's BindPFlags), in that order of increasing
// precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("color", true)
	v.SetDefault("numbers-base", "dec")
	v.SetDefault("bytes-per-row", 16)
	v.SetDefault("default-write", false)

	home, err := homedir.Dir()
	if err == nil {
		v.AddConfigPath(filepath.Join(home, configDirName))
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "config: read config file")
		}
	}

	v.SetEnvPrefix("extedit")
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "config: bind flags")
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	return cfg, nil
}
