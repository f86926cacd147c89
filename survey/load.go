// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type file struct {
	Name      string     `yaml:"name"`
	Scale     Scale      `yaml:"scale"`
	Options   []string   `yaml:"options"`
	Questions []Question `yaml:"questions"`
}

// Load reads a questionnaire definition from a YAML file.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML questionnaire. A top-level options list applies to
// every question that does not declare its own. The scale defaults to
// ordinal.
func Parse(data []byte) (*Model, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse survey file: %w", err)
	}
	for i := range f.Questions {
		if len(f.Questions[i].Options) == 0 {
			f.Questions[i].Options = f.Options
		}
	}
	if f.Name == "" {
		f.Name = "custom"
	}
	if f.Scale == "" {
		f.Scale = ScaleOrdinal
	}
	m, err := NewWithScale(f.Name, f.Scale, f.Questions)
	if err != nil {
		return nil, fmt.Errorf("invalid survey file: %w", err)
	}
	return m, nil
}
