package resdoc

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const goldenPlainDocument = `<?xml version="1.0" encoding="utf-8"?>
<root>
    <!--
    Canonical resource document. Entries are sorted by name using ordinal
    comparison. String values are stored verbatim. Binary payloads are base64
    encoded and wrapped at column 80; strip whitespace from a wrapped value
    before decoding it.
    -->
    <resheader name="resmimetype">
        <value>text/resdoc</value>
    </resheader>
    <resheader name="version">
        <value>2.0</value>
    </resheader>
    <resheader name="reader">
        <value>github.com/tillig/nant-tasks/resdoc.Reader</value>
    </resheader>
    <resheader name="writer">
        <value>github.com/tillig/nant-tasks/resdoc.Writer</value>
    </resheader>
    <data name="A">
        <value>one</value>
    </data>
    <data name="B">
        <value>two</value>
    </data>
</root>
`

func TestWriterGoldenDocument(t *testing.T) {
	buffer := &bytes.Buffer{}
	entries := []Entry{
		{Name: "A", Value: "one"},
		{Name: "B", Value: "two"},
	}
	if err := NewWriter(buffer).Generate(entries); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if buffer.String() != goldenPlainDocument {
		t.Fatalf("document mismatch:\n--- got ---\n%s\n--- want ---\n%s", buffer.String(), goldenPlainDocument)
	}
}

func TestWriterDeterministic(t *testing.T) {
	entries := []Entry{{Name: "K", Value: "v"}}
	first := &bytes.Buffer{}
	second := &bytes.Buffer{}
	if err := NewWriter(first).Generate(entries); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := NewWriter(second).Generate(entries); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("two runs produced different documents")
	}
}

func TestWriterDoubleGenerate(t *testing.T) {
	buffer := &bytes.Buffer{}
	writer := NewWriter(buffer)
	if err := writer.Generate([]Entry{{Name: "A", Value: "one"}}); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	before := buffer.String()
	err := writer.Generate(nil)
	if !errors.Is(err, ErrAlreadyGenerated) {
		t.Fatalf("expected ErrAlreadyGenerated, got %v", err)
	}
	if buffer.String() != before {
		t.Fatalf("second Generate mutated the output")
	}
}

func TestWriterEscaping(t *testing.T) {
	buffer := &bytes.Buffer{}
	entries := []Entry{{Name: `say "hi" & <bye>`, Value: "1 < 2 & 3 > 2"}}
	if err := NewWriter(buffer).Generate(entries); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buffer.String()
	if !strings.Contains(out, `name="say &quot;hi&quot; &amp; &lt;bye&gt;"`) {
		t.Fatalf("attribute not escaped:\n%s", out)
	}
	if !strings.Contains(out, "<value>1 &lt; 2 &amp; 3 &gt; 2</value>") {
		t.Fatalf("value not escaped:\n%s", out)
	}
}

func TestWriterWrappedValueBlockForm(t *testing.T) {
	entry, err := NewEncoder().Encode("blob", sequence(200))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	buffer := &bytes.Buffer{}
	if err := NewWriter(buffer).Generate([]Entry{entry}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buffer.String()
	if !strings.Contains(out, "<value>\n"+wrapIndent) {
		t.Fatalf("wrapped payload should start on its own line:\n%s", out)
	}
	if !strings.Contains(out, "\n</value>\n") {
		t.Fatalf("wrapped payload should keep its trailing terminator:\n%s", out)
	}
}
