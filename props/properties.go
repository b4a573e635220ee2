// Package props holds the build property map shared by configured tasks.
package props

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrPropertyNotFound indicates a delete or lookup named an absent property.
	ErrPropertyNotFound = errors.New("props: property not found")
	// ErrPropertyReadOnly indicates an attempt to delete a read-only property.
	ErrPropertyReadOnly = errors.New("props: property is read-only")
)

// Property is one named build value.
type Property struct {
	Value    string `yaml:"value"`
	ReadOnly bool   `yaml:"readOnly,omitempty"`
}

// UnmarshalYAML accepts either the full form or a plain scalar shorthand.
func (p *Property) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Value = node.Value
		p.ReadOnly = false
		return nil
	}
	type plain Property
	var value plain
	if err := node.Decode(&value); err != nil {
		return err
	}
	*p = Property(value)
	return nil
}

// Properties is a mutable name → property map with a read-only guard on
// deletion.
type Properties struct {
	entries map[string]Property
}

// New creates an empty property map.
func New() *Properties {
	return &Properties{entries: map[string]Property{}}
}

// FromMap creates a property map seeded from m.
func FromMap(m map[string]Property) *Properties {
	p := New()
	for name, prop := range m {
		p.entries[name] = prop
	}
	return p
}

// Set stores a writable property.
func (p *Properties) Set(name, value string) {
	p.entries[name] = Property{Value: value}
}

// SetReadOnly stores a property protected from deletion.
func (p *Properties) SetReadOnly(name, value string) {
	p.entries[name] = Property{Value: value, ReadOnly: true}
}

// Get returns the value of name.
func (p *Properties) Get(name string) (string, bool) {
	prop, ok := p.entries[name]
	return prop.Value, ok
}

// Delete removes name from the map. Read-only properties cannot be deleted,
// and deleting an absent property is an error rather than a silent no-op.
func (p *Properties) Delete(name string) error {
	prop, ok := p.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, name)
	}
	if prop.ReadOnly {
		return fmt.Errorf("%w: %s", ErrPropertyReadOnly, name)
	}
	delete(p.entries, name)
	return nil
}

// Names returns all property names in sorted order.
func (p *Properties) Names() []string {
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of properties.
func (p *Properties) Len() int { return len(p.entries) }

// Expand substitutes ${name} references in s. Unknown references are left
// intact so downstream tooling can report them.
func (p *Properties) Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start == -1 {
			b.WriteString(s)
			return b.String()
		}
		end := strings.Index(s[start:], "}")
		if end == -1 {
			b.WriteString(s)
			return b.String()
		}
		end += start
		name := s[start+2 : end]
		b.WriteString(s[:start])
		if value, ok := p.Get(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
}
