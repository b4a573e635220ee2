package resdoc

import (
	"encoding"
	"reflect"

	"github.com/viant/bintly"
)

var (
	textUnmarshalerType   = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	binaryUnmarshalerType = reflect.TypeOf((*encoding.BinaryUnmarshaler)(nil)).Elem()
	graphDecoderType      = reflect.TypeOf((*bintly.Decoder)(nil)).Elem()
)

// Encoder classifies runtime values and turns them into entries. The
// classification is an ordered fallback chain evaluated first match wins:
//
//  1. nil value, including a typed nil pointer → empty entry with the null
//     sentinel type
//  2. string → value stored verbatim, no type
//  3. []byte → base64 wrapped, byte-array type
//  4. text round-trip (encoding.TextMarshaler + encoding.TextUnmarshaler) →
//     text form with the fully qualified type name
//  5. binary round-trip (encoding.BinaryMarshaler + encoding.BinaryUnmarshaler) →
//     base64 wrapped with type name and the byte-array mime marker
//  6. graph serialization (bintly.Encoder + bintly.Decoder) → base64 wrapped
//     bintly stream with the graph mime marker and no type
//
// The order matters: a type satisfying several arms is always stored through
// the earliest one. Arm 6 is the only arm that can fail for a non-nil value;
// a type implementing none of the round-trip capabilities yields EncodingError.
type Encoder struct {
	writers *bintly.Writers
}

// NewEncoder creates an encoder with its own bintly writer pool.
func NewEncoder() *Encoder {
	return &Encoder{writers: bintly.NewWriters()}
}

// Encode produces a fully populated entry for value. An *Opaque value is
// re-emitted verbatim so documents holding types unknown to this process
// survive a rewrite byte for byte.
func (e *Encoder) Encode(name string, value interface{}) (Entry, error) {
	if isNil(value) {
		return Entry{Name: name, Type: TypeNull}, nil
	}
	switch actual := value.(type) {
	case *Opaque:
		return Entry{Name: name, Value: actual.Value, Type: actual.Type, MimeType: actual.MimeType}, nil
	case string:
		return Entry{Name: name, Value: actual}, nil
	case []byte:
		return Entry{Name: name, Value: WrapBase64(actual), Type: TypeByteArray}, nil
	}
	if marshaler, ok := value.(encoding.TextMarshaler); ok && hasCapability(value, textUnmarshalerType) {
		text, err := marshaler.MarshalText()
		if err != nil {
			return Entry{}, &EncodingError{Name: name, Type: typeName(value), Err: err}
		}
		return Entry{Name: name, Value: string(text), Type: typeName(value)}, nil
	}
	if marshaler, ok := value.(encoding.BinaryMarshaler); ok && hasCapability(value, binaryUnmarshalerType) {
		data, err := marshaler.MarshalBinary()
		if err != nil {
			return Entry{}, &EncodingError{Name: name, Type: typeName(value), Err: err}
		}
		return Entry{Name: name, Value: WrapBase64(data), Type: typeName(value), MimeType: MimeByteArray}, nil
	}
	graphEncoder, ok := value.(bintly.Encoder)
	if !ok || !hasCapability(value, graphDecoderType) {
		return Entry{}, &EncodingError{Name: name, Type: typeName(value)}
	}
	writer := e.writers.Get()
	defer e.writers.Put(writer)
	if err := graphEncoder.EncodeBinary(writer); err != nil {
		return Entry{}, &EncodingError{Name: name, Type: typeName(value), Err: err}
	}
	return Entry{Name: name, Value: WrapBase64(writer.Bytes()), MimeType: MimeGraph}, nil
}

// isNil reports whether value holds no data. A typed nil pointer is as empty
// as an untyped nil interface; both take the null arm, since calling a marshal
// method on a nil receiver would fault.
func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// hasCapability reports whether value, or a pointer to it, satisfies iface.
// Unmarshaling capabilities usually live on pointer receivers, so encoding a
// non-pointer value still counts as round-trippable when *T implements iface.
func hasCapability(value interface{}, iface reflect.Type) bool {
	t := reflect.TypeOf(value)
	if t == nil {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	return reflect.PointerTo(t).Implements(iface)
}

func typeName(value interface{}) string {
	t := reflect.TypeOf(value)
	if t == nil {
		return TypeNull
	}
	return t.String()
}
