package resdoc

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/viant/bintly"
)

// Opaque carries an entry whose value cannot be materialized in this process:
// either its declared type is not registered, or the payload is a serialized
// graph, which records no type at all. The encoder re-emits an Opaque
// verbatim, so rewriting a document never loses foreign entries.
type Opaque struct {
	Value    string
	Type     string
	MimeType string
}

// Registry maps declared type names to prototypes used to rebuild values on
// read. It is constructed once at startup and never mutated afterwards;
// collaborators share it by reference.
type Registry struct {
	types   map[string]reflect.Type
	readers *bintly.Readers
}

// NewRegistry builds a registry from prototype values. Each prototype is
// registered under its fully qualified type name, the same name the encoder
// records in the document.
func NewRegistry(prototypes ...interface{}) *Registry {
	registry := &Registry{
		types:   make(map[string]reflect.Type, len(prototypes)),
		readers: bintly.NewReaders(),
	}
	for _, prototype := range prototypes {
		t := reflect.TypeOf(prototype)
		if t == nil {
			continue
		}
		registry.types[t.String()] = t
	}
	return registry
}

// Decode reverses the encoding arm recorded on entry. Plain entries come back
// as string, byte-array entries as []byte, registered round-trip types as a
// fresh value of the registered type. Anything else is returned as *Opaque.
func (r *Registry) Decode(entry Entry) (interface{}, error) {
	switch {
	case entry.Type == TypeNull:
		return nil, nil
	case entry.Type == "" && entry.MimeType == "":
		return entry.Value, nil
	case entry.Type == TypeByteArray && entry.MimeType == "":
		data, err := UnwrapBase64(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
		}
		return data, nil
	}
	t, registered := r.types[entry.Type]
	if !registered {
		return &Opaque{Value: entry.Value, Type: entry.Type, MimeType: entry.MimeType}, nil
	}
	target := reflect.New(elemType(t))
	switch entry.MimeType {
	case "":
		unmarshaler, ok := target.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, fmt.Errorf("resdoc: decode entry %q: type %s does not round-trip text", entry.Name, entry.Type)
		}
		if err := unmarshaler.UnmarshalText([]byte(entry.Value)); err != nil {
			return nil, fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
		}
	case MimeByteArray:
		unmarshaler, ok := target.Interface().(encoding.BinaryUnmarshaler)
		if !ok {
			return nil, fmt.Errorf("resdoc: decode entry %q: type %s does not round-trip bytes", entry.Name, entry.Type)
		}
		data, err := UnwrapBase64(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
		}
		if err := unmarshaler.UnmarshalBinary(data); err != nil {
			return nil, fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
		}
	default:
		return &Opaque{Value: entry.Value, Type: entry.Type, MimeType: entry.MimeType}, nil
	}
	if t.Kind() == reflect.Ptr {
		return target.Interface(), nil
	}
	return target.Elem().Interface(), nil
}

// DecodeGraph decodes a graph-serialized payload into target. The caller
// supplies the concrete type; graph entries record none.
func (r *Registry) DecodeGraph(entry Entry, target bintly.Decoder) error {
	if entry.MimeType != MimeGraph {
		return fmt.Errorf("resdoc: entry %q is not a serialized graph", entry.Name)
	}
	data, err := UnwrapBase64(entry.Value)
	if err != nil {
		return fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
	}
	reader := r.readers.Get()
	defer r.readers.Put(reader)
	if err := reader.FromBytes(data); err != nil {
		return fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
	}
	if err := target.DecodeBinary(reader); err != nil {
		return fmt.Errorf("resdoc: decode entry %q: %w", entry.Name, err)
	}
	return nil
}

func elemType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
