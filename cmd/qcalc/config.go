package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"qcalc/app/lang"
	"qcalc/app/prelude"
)

const defaultListen = ":8080"

// Config is the optional qcalc configuration file.
//
//	prelude: /path/to/replacement.qcalc
//	definitions:
//	  - 1 smoot = 1.7018 m
//	log_level: debug
//	listen: ":9090"
type Config struct {
	Prelude     string   `yaml:"prelude"`
	Definitions []string `yaml:"definitions"`
	LogLevel    string   `yaml:"log_level"`
	Listen      string   `yaml:"listen"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/qcalc/config.yaml (or the
// platform equivalent). Empty when no config directory is known.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "qcalc", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file yields an empty
// config unless required is set.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := decodeConfig(bytes.NewReader(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Registry builds the session registry described by cfg: the bundled
// prelude (or the configured replacement) followed by extra definitions.
// With no customization the shared default registry is returned, so
// callers that define units must Clone it first.
func (c *Config) Registry() (*lang.Registry, error) {
	if c.Prelude == "" && len(c.Definitions) == 0 {
		return prelude.Default()
	}
	src := prelude.Source
	if c.Prelude != "" {
		data, err := os.ReadFile(c.Prelude)
		if err != nil {
			return nil, fmt.Errorf("reading prelude: %w", err)
		}
		src = string(data)
	}
	return prelude.Load(src, c.Definitions...)
}
