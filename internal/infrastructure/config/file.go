package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ErrFormat is returned for boot files with an unknown extension.
var ErrFormat = errors.New("unsupported config file format")

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// LoadFile overlays the boot file at path onto cfg. Keys missing from the
// file keep their current values; unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := Decode(filepath.Ext(path), data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Decode parses data according to ext (".yaml", ".yml", ".toml" or ".json").
func Decode(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField())
	case ".toml":
		return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".json":
		return strictJSON.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
}
