package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Load reads a configuration file and returns its contents as a Tree. The
// format (json, yaml, toml) is chosen from the file extension. Keys are
// case-insensitive and are returned in lower case.
func Load(path string) (Tree, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	tree, err := Normalize(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return tree, nil
}
