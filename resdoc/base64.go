package resdoc

import (
	"encoding/base64"
	"strings"
	"unicode"
)

const (
	wrapWidth  = 80
	wrapIndent = "        "
)

// WrapBase64 encodes data as base64 text. Results up to 80 characters are
// returned as a single unwrapped token. Longer results are split into
// 80-character chunks, each on its own line behind an 8-space indent and
// terminated by \n, including the final partial chunk. The indent exists only
// for document readability; consumers must strip whitespace before decoding.
func WrapBase64(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) <= wrapWidth {
		return encoded
	}
	var b strings.Builder
	for len(encoded) > 0 {
		chunk := encoded
		if len(chunk) > wrapWidth {
			chunk = chunk[:wrapWidth]
		}
		b.WriteString(wrapIndent)
		b.WriteString(chunk)
		b.WriteString("\n")
		encoded = encoded[len(chunk):]
	}
	return b.String()
}

// UnwrapBase64 reverses WrapBase64: all whitespace is stripped and the
// remaining text is base64 decoded.
func UnwrapBase64(value string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
	return base64.StdEncoding.DecodeString(compact)
}
