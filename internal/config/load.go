package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ReadFile reads a TOML or YAML configuration file into a map, choosing the
// format by extension.
func ReadFile(fsys fs.FS, path string) (map[string]any, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes configuration data. The format comes from name's extension.
func Parse(name string, data []byte) (map[string]any, error) {
	var raw map[string]any

	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Path: name, Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &ParseError{Path: name, Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// ReadPath reads a configuration file from the OS file system.
func ReadPath(path string) (map[string]any, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return ReadFile(os.DirFS(dir), name)
}

// Load reads path from the OS file system and decodes it into options.
func Load(path string, recognized ...string) (Options, error) {
	raw, err := ReadPath(path)
	if err != nil {
		return Options{}, err
	}
	return Decode(raw, recognized...)
}

// Merge combines raw option maps. Later layers override earlier ones.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
