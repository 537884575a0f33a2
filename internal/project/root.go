package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigNames in lookup order.
var ConfigNames = []string{"mend.toml", "mend.yaml", "mend.yml"}

// FindConfig walks up from startDir to locate a config file.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and loads the config governing startDir. Without a
// config file it returns the defaults rooted at startDir and ok=false.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		root, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, false, absErr
		}
		if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		return &Manifest{Root: root, Config: Default()}, false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Name returns the configured project name or the root directory name.
func (m *Manifest) Name() string {
	if m.Config.Project.Name != "" {
		return m.Config.Project.Name
	}
	return filepath.Base(m.Root)
}
