// Package lint scans text files line by line against a fixed rule table,
// flagging content that should not ship, such as hard-coded absolute paths.
package lint

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/viant/afs"

	"github.com/tillig/nant-tasks/fileset"
)

// Rule pairs a name with a compiled line pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Config is the immutable rule table. It is compiled once at startup and
// shared by reference; rules never change afterwards.
type Config struct {
	rules []Rule
}

// NewConfig compiles named patterns into a rule table. Rules are ordered by
// name so reports are deterministic.
func NewConfig(patterns map[string]string) (*Config, error) {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		compiled, err := regexp.Compile(patterns[name])
		if err != nil {
			return nil, fmt.Errorf("lint: rule %s: %w", name, err)
		}
		rules = append(rules, Rule{Name: name, Pattern: compiled})
	}
	return &Config{rules: rules}, nil
}

// DefaultConfig returns the built-in rule table flagging absolute paths.
// Rules are listed in name order, matching what NewConfig produces.
func DefaultConfig() *Config {
	return &Config{rules: []Rule{
		{Name: "posix-absolute-path", Pattern: regexp.MustCompile(`(^|[\s="'(>])/(?:usr|home|opt|var|tmp)/`)},
		{Name: "windows-absolute-path", Pattern: regexp.MustCompile(`(?i)\b[a-z]:[\\/]`)},
	}}
}

// Rules returns the compiled rules in report order.
func (c *Config) Rules() []Rule { return c.rules }

// Match is one rule hit.
type Match struct {
	URL  string
	Line int
	Text string
	Rule string
}

// Service scans filesets for rule violations.
type Service struct {
	fs     afs.Service
	config *Config
}

// Option defines a functional option for configuring the Service
type Option func(*Service)

// WithFS overrides the storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// New creates a lint service over config; a nil config selects the defaults.
func New(config *Config, opts ...Option) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Service{fs: afs.New(), config: config}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request selects the files to scan.
type Request struct {
	Location string
	Include  []string
	Exclude  []string
}

// Run scans every resolved file and returns all matches in file, line, rule
// order.
func (s *Service) Run(ctx context.Context, request Request) ([]Match, error) {
	urls, err := fileset.Resolve(ctx, s.fs, request.Location, request.Include, request.Exclude)
	if err != nil {
		return nil, fmt.Errorf("lint: resolve %s: %w", request.Location, err)
	}
	var matches []Match
	for _, URL := range urls {
		data, err := s.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("lint: read %s: %w", URL, err)
		}
		matches = append(matches, s.scan(URL, data)...)
	}
	return matches, nil
}

func (s *Service) scan(URL string, data []byte) []Match {
	var matches []Match
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, rule := range s.config.rules {
			if rule.Pattern.MatchString(text) {
				matches = append(matches, Match{
					URL:  URL,
					Line: line,
					Text: strings.TrimSpace(text),
					Rule: rule.Name,
				})
			}
		}
	}
	return matches
}
