package props

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a property file. The file is a YAML map of name to property,
// where a plain string value is shorthand for a writable property.
func Load(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("props: read %s: %w", path, err)
	}
	var entries map[string]Property
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("props: parse %s: %w", path, err)
	}
	return FromMap(entries), nil
}

// Save writes the property map back as YAML.
func (p *Properties) Save(path string) error {
	data, err := yaml.Marshal(p.entries)
	if err != nil {
		return fmt.Errorf("props: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("props: write %s: %w", path, err)
	}
	return nil
}
