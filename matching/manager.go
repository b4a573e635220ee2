package matching

import (
	"path/filepath"
	"strings"

	"github.com/viant/afs/url"

	"github.com/tillig/nant-tasks/matching/option"
)

// Manager applies fileset include/exclude rules to candidate paths.
type Manager struct {
	options *option.Options
}

// New creates a matcher with the given options
func New(opts ...option.Option) *Manager {
	return &Manager{options: option.NewOptions(opts...)}
}

// IsExcluded checks if a path should be excluded based on the patterns
func (m *Manager) IsExcluded(location string, size int) bool {
	if m.options.MaxFileSize > 0 && size > m.options.MaxFileSize {
		return true
	}

	path := filepath.ToSlash(url.Path(location))

	if len(m.options.Inclusions) > 0 && !m.isIncluded(path) {
		return true
	}

	for _, pattern := range m.options.Exclusions {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if m.isExcluded(path, pattern) {
			return true
		}
	}

	return false
}

func (m *Manager) isExcluded(path string, pattern string) bool {
	// Direct substring match (common case for directories like obj/)
	if strings.Contains(path, pattern) {
		return true
	}

	// Glob-style match against the path and its basename
	cleanPattern := strings.TrimPrefix(pattern, "/")
	if matched, _ := filepath.Match(cleanPattern, path); matched {
		return true
	}
	if matched, _ := filepath.Match("*/"+cleanPattern, path); matched {
		return true
	}

	baseName := filepath.Base(path)
	if pattern == baseName || strings.HasSuffix(pattern, "/"+baseName) {
		return true
	}
	if matched, _ := filepath.Match(cleanPattern, baseName); matched {
		return true
	}
	return false
}

func (m *Manager) isIncluded(path string) bool {
	baseName := filepath.Base(path)
	for _, pattern := range m.options.Inclusions {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		if strings.Contains(path, pattern) {
			return true
		}
		cleanPattern := strings.TrimPrefix(pattern, "/")
		if matched, _ := filepath.Match(cleanPattern, path); matched {
			return true
		}
		if matched, _ := filepath.Match(cleanPattern, baseName); matched {
			return true
		}
	}
	return false
}
