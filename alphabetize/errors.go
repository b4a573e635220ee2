package alphabetize

import "errors"

var (
	// ErrSourceMissing indicates the document to alphabetize does not exist.
	ErrSourceMissing = errors.New("alphabetize: source document does not exist")
	// ErrWriteFailed indicates the temporary document was not produced or
	// could not be copied over the original.
	ErrWriteFailed = errors.New("alphabetize: write failed")
)
