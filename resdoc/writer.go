package resdoc

import (
	"fmt"
	"io"
	"strings"
)

// preamble is version pinned and must stay byte identical across runs; the
// document feeds diff/merge workflows.
const preamble = `<?xml version="1.0" encoding="utf-8"?>
<root>
    <!--
    Canonical resource document. Entries are sorted by name using ordinal
    comparison. String values are stored verbatim. Binary payloads are base64
    encoded and wrapped at column 80; strip whitespace from a wrapped value
    before decoding it.
    -->
`

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Writer emits the canonical resource document. A Writer is single use:
// Generate moves it to its terminal state and any further call fails with
// ErrAlreadyGenerated, which keeps callers from emitting twice into one
// stream. Entries are written in the order given; sorting is the caller's
// concern.
type Writer struct {
	out       io.Writer
	generated bool
}

// NewWriter creates a writer targeting out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Generate writes the preamble, the fixed headers and one record per entry.
func (w *Writer) Generate(entries []Entry) error {
	if w.generated {
		return ErrAlreadyGenerated
	}
	w.generated = true

	var b strings.Builder
	b.WriteString(preamble)
	writeHeader(&b, "resmimetype", ResMimeType)
	writeHeader(&b, "version", Version)
	writeHeader(&b, "reader", ReaderID)
	writeHeader(&b, "writer", WriterID)
	for _, entry := range entries {
		writeData(&b, entry)
	}
	b.WriteString("</root>\n")
	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("resdoc: write document: %w", err)
	}
	return nil
}

func writeHeader(b *strings.Builder, name, value string) {
	b.WriteString(`    <resheader name="`)
	b.WriteString(name)
	b.WriteString("\">\n        <value>")
	b.WriteString(value)
	b.WriteString("</value>\n    </resheader>\n")
}

func writeData(b *strings.Builder, entry Entry) {
	b.WriteString(`    <data name="`)
	attrEscaper.WriteString(b, entry.Name)
	b.WriteString(`"`)
	if entry.Type != "" {
		b.WriteString(` type="`)
		attrEscaper.WriteString(b, entry.Type)
		b.WriteString(`"`)
	}
	if entry.MimeType != "" {
		b.WriteString(` mimetype="`)
		attrEscaper.WriteString(b, entry.MimeType)
		b.WriteString(`"`)
	}
	b.WriteString(">\n")
	if wrappedValue(entry) {
		// block form: the wrapped payload already carries per-line indent
		// and a trailing terminator, so the closing tag lands in column 0.
		b.WriteString("        <value>\n")
		b.WriteString(entry.Value)
		b.WriteString("</value>\n")
	} else {
		b.WriteString("        <value>")
		textEscaper.WriteString(b, entry.Value)
		b.WriteString("</value>\n")
	}
	b.WriteString("    </data>\n")
}

// wrappedValue reports whether the entry payload is a column-wrapped base64
// block. Only binary arms wrap; a plain string containing newlines is still
// emitted inline.
func wrappedValue(entry Entry) bool {
	if !strings.HasSuffix(entry.Value, "\n") {
		return false
	}
	return entry.Type == TypeByteArray || entry.MimeType != ""
}
