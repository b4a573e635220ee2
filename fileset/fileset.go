// Package fileset resolves task locations, either a single document or a base
// directory filtered by include/exclude patterns, into the URLs to process.
package fileset

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/tillig/nant-tasks/matching"
	"github.com/tillig/nant-tasks/matching/option"
)

// NormalizeURL turns a location into an absolute URL the storage layer
// understands. Relative paths are made absolute; plain OS paths become
// file:// URLs.
func NormalizeURL(location string) string {
	norm := location
	if url.Scheme(norm, "") == "" && url.IsRelative(norm) {
		if abs, err := filepath.Abs(norm); err == nil {
			norm = abs
		}
	}
	if url.Scheme(norm, "") == "" && !url.IsRelative(norm) {
		norm = url.ToFileURL(norm)
	}
	return norm
}

// Resolve expands location into the ordered list of document URLs to process.
// Without patterns the location names a single document and is returned as is.
// With patterns it is treated as a base directory, listed recursively and
// filtered; results are sorted so batch order is deterministic.
func Resolve(ctx context.Context, fs afs.Service, location string, include, exclude []string) ([]string, error) {
	norm := NormalizeURL(location)
	if len(include) == 0 && len(exclude) == 0 {
		return []string{norm}, nil
	}
	var opts []option.Option
	if len(include) > 0 {
		opts = append(opts, option.WithInclusionPatterns(include...))
	}
	if len(exclude) > 0 {
		opts = append(opts, option.WithExclusionPatterns(exclude...))
	}
	matcher := matching.New(opts...)

	var urls []string
	if err := walk(ctx, fs, norm, matcher, &urls); err != nil {
		return nil, err
	}
	sort.Strings(urls)
	return urls, nil
}

func walk(ctx context.Context, fs afs.Service, baseURL string, matcher *matching.Manager, urls *[]string) error {
	objects, err := fs.List(ctx, baseURL)
	if err != nil {
		return err
	}
	for _, object := range objects {
		if object.IsDir() {
			if url.Equals(object.URL(), baseURL) || url.Path(object.URL()) == url.Path(baseURL) {
				continue
			}
			if err := walk(ctx, fs, url.Join(baseURL, object.Name()), matcher, urls); err != nil {
				return err
			}
			continue
		}
		if matcher.IsExcluded(url.Path(object.URL()), int(object.Size())) {
			continue
		}
		*urls = append(*urls, object.URL())
	}
	return nil
}
