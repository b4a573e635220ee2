package resdoc

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type xmlDocument struct {
	XMLName xml.Name    `xml:"root"`
	Headers []xmlHeader `xml:"resheader"`
	Data    []xmlData   `xml:"data"`
}

type xmlHeader struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type xmlData struct {
	Name     string `xml:"name,attr"`
	Type     string `xml:"type,attr"`
	MimeType string `xml:"mimetype,attr"`
	Value    string `xml:"value"`
}

// Reader parses canonical resource documents back into entries.
type Reader struct{}

// Read parses data and returns its entries in document order. Wrapped binary
// payloads keep their indent and line terminators so a later rewrite is byte
// identical; only the leading terminator introduced by the block layout is
// removed.
func (Reader) Read(data []byte) ([]Entry, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("resdoc: parse document: %w", err)
	}
	entries := make([]Entry, 0, len(doc.Data))
	for _, record := range doc.Data {
		value := record.Value
		if (record.Type == TypeByteArray || record.MimeType != "") && strings.HasPrefix(value, "\n") {
			value = value[1:]
		}
		entries = append(entries, Entry{
			Name:     record.Name,
			Value:    value,
			Type:     record.Type,
			MimeType: record.MimeType,
		})
	}
	return entries, nil
}
