// Package manifest handles javelin.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a javelin.toml project configuration.
type Manifest struct {
	Classpath Classpath `toml:"classpath"`
	Cache     Cache     `toml:"cache"`
	Output    Output    `toml:"output"`

	// Dir is the directory containing the javelin.toml file (set at load time).
	Dir string `toml:"-"`
}

// Classpath configures where class files are looked up.
type Classpath struct {
	Dirs []string `toml:"dirs"`
}

// Cache configures the parsed-class summary cache. Caching is off unless
// enabled explicitly.
type Cache struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// Output configures default rendering options.
type Output struct {
	Visibility string `toml:"visibility"`
}

// Default returns the configuration used when no javelin.toml exists:
// classes resolve against dir itself and caching is off.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

// Load parses a javelin.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "javelin.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad walks up from startDir to find a javelin.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "javelin.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (m *Manifest) applyDefaults() {
	if len(m.Classpath.Dirs) == 0 {
		m.Classpath.Dirs = []string{"."}
	}
	if m.Cache.Path == "" {
		m.Cache.Path = filepath.Join(".javelin", "cache.db")
	}
	if m.Output.Visibility == "" {
		m.Output.Visibility = "package"
	}
}

// ClasspathDirs returns absolute paths for the configured classpath
// directories.
func (m *Manifest) ClasspathDirs() []string {
	var paths []string
	for _, d := range m.Classpath.Dirs {
		if filepath.IsAbs(d) {
			paths = append(paths, d)
			continue
		}
		paths = append(paths, filepath.Join(m.Dir, d))
	}
	return paths
}

// CachePath returns the absolute path of the summary cache database.
func (m *Manifest) CachePath() string {
	if filepath.IsAbs(m.Cache.Path) {
		return m.Cache.Path
	}
	return filepath.Join(m.Dir, m.Cache.Path)
}
