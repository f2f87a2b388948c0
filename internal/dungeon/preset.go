package dungeon

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is a named, validated generator configuration.
type Preset struct {
	// Name uniquely identifies the preset.
	Name string
	// Description summarises the kind of dungeon the preset produces.
	Description string
	// Config is the generator configuration.
	Config Config
}

// yamlPresetFile is the top-level YAML structure for preset files.
type yamlPresetFile struct {
	Preset yamlPreset `yaml:"preset"`
}

type yamlPreset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Generator   Config `yaml:"generator"`
}

// Validate checks preset invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return nil
}

// LoadPresetFromFile reads and validates a single preset YAML file.
//
// Precondition: path must point to a YAML preset file.
// Postcondition: Returns a validated Preset or a non-nil error.
func LoadPresetFromFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file %s: %w", path, err)
	}
	return LoadPresetFromBytes(data)
}

// LoadPresetFromBytes parses and validates a preset from YAML bytes.
//
// Postcondition: Returns a validated Preset or a non-nil error.
func LoadPresetFromBytes(data []byte) (*Preset, error) {
	var file yamlPresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing preset YAML: %w", err)
	}
	p := &Preset{
		Name:        file.Preset.Name,
		Description: strings.TrimSpace(file.Preset.Description),
		Config:      file.Preset.Generator,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating preset: %w", err)
	}
	return p, nil
}

// LoadPresetsFromDir loads every .yaml/.yml file in dir as a preset, sorted
// by name.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns at least one preset, or an error on the first
// invalid file, a duplicate name, or an empty directory.
func LoadPresetsFromDir(dir string) ([]*Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading preset directory %s: %w", dir, err)
	}

	var presets []*Preset
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		p, err := LoadPresetFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading preset from %s: %w", name, err)
		}
		if other, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset name %q in %s and %s", p.Name, other, name)
		}
		seen[p.Name] = name
		presets = append(presets, p)
	}

	if len(presets) == 0 {
		return nil, fmt.Errorf("no preset files found in %s", dir)
	}
	slices.SortFunc(presets, func(a, b *Preset) int {
		return strings.Compare(a.Name, b.Name)
	})
	return presets, nil
}

// FindPreset returns the preset with the given name.
//
// Postcondition: Returns (preset, true) if found, or (nil, false) otherwise.
func FindPreset(presets []*Preset, name string) (*Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
