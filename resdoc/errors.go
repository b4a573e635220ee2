package resdoc

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyGenerated is returned when a Writer is asked to generate twice.
	ErrAlreadyGenerated = errors.New("resdoc: document already generated")
)

// EncodingError reports a value that no encoding arm can store.
type EncodingError struct {
	Name string
	Type string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resdoc: cannot encode entry %q of type %s: %v", e.Name, e.Type, e.Err)
	}
	return fmt.Sprintf("resdoc: cannot encode entry %q of type %s", e.Name, e.Type)
}

func (e *EncodingError) Unwrap() error { return e.Err }
