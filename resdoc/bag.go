package resdoc

import (
	"io"
)

// Bag accumulates an unordered collection of named values and emits them as
// one canonical document. Name uniqueness is the caller's responsibility;
// a repeated Put replaces the earlier value.
type Bag struct {
	encoder *Encoder
	names   []string
	values  map[string]interface{}
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{
		encoder: NewEncoder(),
		values:  map[string]interface{}{},
	}
}

// Put stores value under name.
func (b *Bag) Put(name string, value interface{}) {
	if _, ok := b.values[name]; !ok {
		b.names = append(b.names, name)
	}
	b.values[name] = value
}

// Len returns the number of named values.
func (b *Bag) Len() int { return len(b.values) }

// Generate encodes every value, sorts the entries by name and writes the
// canonical document to out. Running the same bag content through Generate
// again yields byte-identical output.
func (b *Bag) Generate(out io.Writer) error {
	entries := make([]Entry, 0, len(b.names))
	for _, name := range b.names {
		entry, err := b.encoder.Encode(name, b.values[name])
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	SortByName(entries)
	return NewWriter(out).Generate(entries)
}
