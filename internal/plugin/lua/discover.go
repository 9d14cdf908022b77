package lua

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const entryFile = "init.lua"

// Discover returns the script paths of the plugins found under paths.
//
// A path naming a .lua file is returned as is. A directory contributes its
// *.lua files and every subdirectory holding an init.lua. Missing paths are
// skipped. When two entries share a plugin name the first path wins.
func Discover(paths ...string) ([]string, error) {
	seen := make(map[string]bool)
	var found []string

	add := func(name, path string) {
		if seen[name] {
			return
		}
		seen[name] = true
		found = append(found, path)
	}

	for _, base := range paths {
		info, err := os.Stat(base)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(pluginName(base), base)
			continue
		}

		entries, err := os.ReadDir(base)
		if err != nil {
			return nil, err
		}
		var dirFound []string
		for _, entry := range entries {
			path := filepath.Join(base, entry.Name())
			if !entry.IsDir() {
				if filepath.Ext(entry.Name()) == ".lua" {
					dirFound = append(dirFound, path)
				}
				continue
			}
			initPath := filepath.Join(path, entryFile)
			if _, err := os.Stat(initPath); err == nil {
				dirFound = append(dirFound, initPath)
			}
		}
		sort.Slice(dirFound, func(i, j int) bool {
			return pluginName(dirFound[i]) < pluginName(dirFound[j])
		})
		for _, path := range dirFound {
			add(pluginName(path), path)
		}
	}

	return found, nil
}

// LoadAll loads every plugin Discover finds. On error the plugins already
// loaded are closed.
func LoadAll(paths []string, opts ...StateOption) ([]*Plugin, error) {
	scripts, err := Discover(paths...)
	if err != nil {
		return nil, err
	}

	plugins := make([]*Plugin, 0, len(scripts))
	for _, script := range scripts {
		p, err := LoadFile(script, opts...)
		if err != nil {
			for _, loaded := range plugins {
				loaded.Close()
			}
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func pluginName(path string) string {
	if filepath.Base(path) == entryFile {
		return filepath.Base(filepath.Dir(path))
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
