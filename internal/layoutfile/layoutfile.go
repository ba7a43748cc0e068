// Package layoutfile reads and writes declarative layouts in YAML, TOML or
// JSON.
package layoutfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jask/tilework/internal/panel"
)

type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
	JSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return "", fmt.Errorf("layout file %s: unsupported extension", path)
}

// Decode parses a layout description. Unknown fields are rejected so typos
// in a hand-written file surface as errors.
func Decode(r io.Reader, format Format) (panel.NodeConfig, error) {
	var cfg panel.NodeConfig
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode yaml layout: %w", err)
		}
	case TOML:
		md, err := toml.NewDecoder(r).Decode(&cfg)
		if err != nil {
			return cfg, fmt.Errorf("decode toml layout: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("decode toml layout: unknown field %s", undecoded[0])
		}
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode json layout: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported layout format %q", format)
	}
	return cfg, nil
}

// Load reads the file at path and builds the tree it describes.
func Load(path string) (panel.Tree, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return panel.Tree{}, err
	}
	tree, err := panel.Build(cfg)
	if err != nil {
		return panel.Tree{}, fmt.Errorf("layout file %s: %w", path, err)
	}
	return tree, nil
}

func ReadConfig(path string) (panel.NodeConfig, error) {
	format, err := FormatOf(path)
	if err != nil {
		return panel.NodeConfig{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return panel.NodeConfig{}, err
	}
	defer f.Close()
	cfg, err := Decode(f, format)
	if err != nil {
		return cfg, fmt.Errorf("layout file %s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg panel.NodeConfig, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(cfg)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}
	return fmt.Errorf("unsupported layout format %q", format)
}

// Marshal renders the tree's declarative form.
func Marshal(t panel.Tree, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, panel.Config(t), format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the tree to path, picking the format from the extension. The
// file is replaced through a rename so readers never see a partial layout.
func Save(path string, t panel.Tree) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(t, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
