package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const worldFile = "world.yaml"

// Save writes the definition to dir/<short name>/world.yaml.
func (d *WorldDef) Save(dir string) (string, error) {
	name := d.ShortName
	if name == "" {
		return "", fmt.Errorf("models: world %q has no short name", d.Title)
	}
	target := filepath.Join(dir, name)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return "", err
	}
	path := filepath.Join(target, worldFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadNamed reads a world previously written by Save.
func LoadNamed(dir, name string) (*WorldDef, error) {
	return LoadWorld(filepath.Join(dir, name, worldFile))
}

// ListWorlds names the saved worlds under dir.
func ListWorlds(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var worlds []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// world.yaml marks a valid entry
		if _, err := os.Stat(filepath.Join(dir, entry.Name(), worldFile)); err == nil {
			worlds = append(worlds, entry.Name())
		}
	}
	return worlds, nil
}
