// Package alphabetize rewrites canonical resource documents so their entries
// appear in ordinal name order. Each document is fully regenerated from its
// decoded entry set and atomically replaced on disk.
package alphabetize

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/tillig/nant-tasks/fileset"
	"github.com/tillig/nant-tasks/resdoc"
)

// Service alphabetizes resource documents in place. Documents in a batch are
// processed strictly sequentially; each call owns its own temporary directory
// and entry collection for the duration of one file.
type Service struct {
	fs       afs.Service
	registry *resdoc.Registry
	encoder  *resdoc.Encoder
	logf     func(format string, args ...interface{})
}

// Option defines a functional option for configuring the Service
type Option func(*Service)

// WithRegistry supplies the decode registry for declared types.
func WithRegistry(registry *resdoc.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithFS overrides the storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogf overrides the soft-failure logger.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(s *Service) { s.logf = logf }
}

// New creates a new alphabetize service
func New(opts ...Option) *Service {
	s := &Service{
		fs:       afs.New(),
		registry: resdoc.NewRegistry(),
		encoder:  resdoc.NewEncoder(),
		logf:     log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request selects the documents to alphabetize. Location names one document,
// or a base directory when include/exclude patterns are present.
type Request struct {
	Location    string
	Include     []string
	Exclude     []string
	FailOnError bool
}

// Failure records a document that could not be processed.
type Failure struct {
	URL string
	Err error
}

// Response summarizes one batch.
type Response struct {
	Processed []string
	Unchanged []string
	Failures  []Failure
}

// Run alphabetizes every document the request resolves to. With FailOnError
// the first failure aborts the batch; otherwise failures are logged, recorded
// on the response and the batch continues.
func (s *Service) Run(ctx context.Context, request Request) (*Response, error) {
	urls, err := fileset.Resolve(ctx, s.fs, request.Location, request.Include, request.Exclude)
	if err != nil {
		return nil, fmt.Errorf("alphabetize: resolve %s: %w", request.Location, err)
	}
	response := &Response{}
	for _, URL := range urls {
		changed, err := s.AlphabetizeFile(ctx, URL)
		if err != nil {
			if request.FailOnError {
				return response, err
			}
			s.logf("alphabetize: %v (continuing)", err)
			response.Failures = append(response.Failures, Failure{URL: URL, Err: err})
			continue
		}
		if changed {
			response.Processed = append(response.Processed, URL)
		} else {
			response.Unchanged = append(response.Unchanged, URL)
		}
	}
	return response, nil
}

// AlphabetizeFile regenerates one document and replaces it atomically. It
// reports false when the source and the regenerated document share the same
// content fingerprint, in which case the file is left alone. The source is
// fully materialized before the temporary output is produced; the read and
// write phases never overlap on the same file.
func (s *Service) AlphabetizeFile(ctx context.Context, location string) (bool, error) {
	URL := fileset.NormalizeURL(location)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return false, fmt.Errorf("alphabetize: stat %s: %w", URL, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: %s", ErrSourceMissing, URL)
	}
	source, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return false, fmt.Errorf("alphabetize: read %s: %w", URL, err)
	}
	document, err := s.regenerate(URL, source)
	if err != nil {
		return false, err
	}
	sourceHash, err := contentHash(source)
	if err != nil {
		return false, fmt.Errorf("alphabetize: hash %s: %w", URL, err)
	}
	documentHash, err := contentHash(document)
	if err != nil {
		return false, fmt.Errorf("alphabetize: hash %s: %w", URL, err)
	}
	if sourceHash == documentHash {
		return false, nil
	}
	if err := s.replace(ctx, URL, document); err != nil {
		return false, err
	}
	return true, nil
}

// regenerate decodes, sorts and re-encodes the document.
func (s *Service) regenerate(URL string, source []byte) ([]byte, error) {
	entries, err := resdoc.Reader{}.Read(source)
	if err != nil {
		return nil, fmt.Errorf("alphabetize: %s: %w", URL, err)
	}
	resdoc.SortByName(entries)

	encoded := make([]resdoc.Entry, 0, len(entries))
	for _, entry := range entries {
		value, err := s.registry.Decode(entry)
		if err != nil {
			return nil, fmt.Errorf("alphabetize: %s: %w", URL, err)
		}
		out, err := s.encoder.Encode(entry.Name, value)
		if err != nil {
			return nil, fmt.Errorf("alphabetize: %s: %w", URL, err)
		}
		encoded = append(encoded, out)
	}

	buffer := &bytes.Buffer{}
	if err := resdoc.NewWriter(buffer).Generate(encoded); err != nil {
		return nil, fmt.Errorf("alphabetize: %s: %w", URL, err)
	}
	return buffer.Bytes(), nil
}

// replace writes the document to a fresh file in a process-local temporary
// directory, then moves it over the original. The temporary directory is
// removed on every exit path.
func (s *Service) replace(ctx context.Context, URL string, document []byte) error {
	tempDir, err := os.MkdirTemp("", "alphabetize")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, URL, err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	tempURL := url.ToFileURL(filepath.Join(tempDir, filepath.Base(url.Path(URL))))
	if err := s.fs.Upload(ctx, tempURL, file.DefaultFileOsMode, bytes.NewReader(document)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, URL, err)
	}
	exists, err := s.fs.Exists(ctx, tempURL)
	if err != nil || !exists {
		return fmt.Errorf("%w: %s: temporary document missing", ErrWriteFailed, URL)
	}
	if err := s.fs.Move(ctx, tempURL, URL); err != nil {
		// Move can fail across volumes; fall back to a direct upload.
		if err2 := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(document)); err2 != nil {
			return fmt.Errorf("%w: %s: %v / %v", ErrWriteFailed, URL, err, err2)
		}
	}
	return nil
}
