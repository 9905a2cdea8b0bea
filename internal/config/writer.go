package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/josephgoksu/contactbook/types"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteConfigFile when the target exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

type fileConfig struct {
	DB        string  `yaml:"db"`
	Format    string  `yaml:"format,omitempty"`
	OnCorrupt string  `yaml:"on_corrupt"`
	JSON      bool    `yaml:"json,omitempty"`
	Log       fileLog `yaml:"log"`
}

type fileLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// MarshalConfig renders cfg in the layout read back by viper. Flags that
// only make sense per invocation (config, verbose) are omitted.
func MarshalConfig(cfg types.AppConfig) ([]byte, error) {
	doc := fileConfig{
		DB:        cfg.DB,
		Format:    cfg.Format,
		OnCorrupt: cfg.OnCorrupt,
		JSON:      cfg.JSON,
		Log: fileLog{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		},
	}

	var buf bytes.Buffer
	buf.WriteString("# contactbook configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteConfigFile writes cfg to path, creating parent directories. An existing
// file is only replaced when force is set.
func WriteConfigFile(fsys afero.Fs, path string, cfg types.AppConfig, force bool) error {
	if !force {
		_, err := fsys.Stat(path)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}

	data, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
