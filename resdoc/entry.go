package resdoc

import (
	"sort"
)

// Fixed identifiers recorded in the document. Consumers rely on these being
// stable across releases; changing any of them is a format break.
const (
	// TypeNull marks an entry that holds no value.
	TypeNull = "resdoc.Null"
	// TypeByteArray marks an entry holding a raw byte sequence.
	TypeByteArray = "[]byte"

	// MimeByteArray marks an object stored through its binary round-trip form.
	MimeByteArray = "application/x-resdoc-bytearray.base64"
	// MimeGraph marks an object graph serialized with bintly.
	MimeGraph = "application/x-resdoc-bintly.base64"
)

// Document header values.
const (
	ResMimeType = "text/resdoc"
	Version     = "2.0"
	ReaderID    = "github.com/tillig/nant-tasks/resdoc.Reader"
	WriterID    = "github.com/tillig/nant-tasks/resdoc.Writer"
)

// Entry is one named, already-encoded resource value ready for emission.
// Value never holds raw binary data; binary payloads are base64 wrapped
// before they become an entry. Entries are immutable once constructed.
type Entry struct {
	Name     string
	Value    string
	Type     string
	MimeType string
}

// SortByName orders entries by name ascending under ordinal comparison.
// The sort is stable, so duplicate names keep their relative input order.
// Locale-aware collation is deliberately not used; output must be identical
// across machines.
func SortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}
