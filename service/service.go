// Package service executes configured batches of build tasks: alphabetize,
// lint and external test runs, strictly in order.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tillig/nant-tasks/alphabetize"
	"github.com/tillig/nant-tasks/lint"
	"github.com/tillig/nant-tasks/props"
	"github.com/tillig/nant-tasks/resdoc"
	"github.com/tillig/nant-tasks/runner"
)

// Service runs configured tasks sequentially. Soft failures are logged and
// counted; with FailOnError the first failure aborts the batch.
type Service struct {
	config     *Config
	properties *props.Properties
	registry   *resdoc.Registry
	logf       func(format string, args ...interface{})
}

// Option defines a functional option for configuring the Service
type Option func(*Service)

// WithRegistry supplies the decode registry used by alphabetize tasks.
func WithRegistry(registry *resdoc.Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// WithLogf overrides the logger.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(s *Service) { s.logf = logf }
}

// New creates a batch service over config.
func New(config *Config, opts ...Option) *Service {
	s := &Service{
		config:     config,
		properties: props.FromMap(config.Properties),
		registry:   resdoc.NewRegistry(),
		logf:       log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Properties exposes the batch property map.
func (s *Service) Properties() *props.Properties { return s.properties }

// Summary reports what one batch run did.
type Summary struct {
	Alphabetized int
	Unchanged    int
	LintMatches  int
	TestsRun     int
	Failures     int
}

// Run executes all configured tasks. The returned summary is valid even when
// an error aborts the batch partway through.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	if err := s.runAlphabetize(ctx, summary); err != nil {
		return summary, err
	}
	if err := s.runLint(ctx, summary); err != nil {
		return summary, err
	}
	if err := s.runTests(ctx, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *Service) runAlphabetize(ctx context.Context, summary *Summary) error {
	if len(s.config.Alphabetize) == 0 {
		return nil
	}
	svc := alphabetize.New(alphabetize.WithRegistry(s.registry), alphabetize.WithLogf(s.logf))
	for _, task := range s.config.Alphabetize {
		response, err := svc.Run(ctx, alphabetize.Request{
			Location:    s.properties.Expand(task.Path),
			Include:     task.Include,
			Exclude:     task.Exclude,
			FailOnError: s.config.FailOnError,
		})
		if response != nil {
			summary.Alphabetized += len(response.Processed)
			summary.Unchanged += len(response.Unchanged)
			summary.Failures += len(response.Failures)
		}
		if err != nil {
			summary.Failures++
			return err
		}
	}
	return nil
}

func (s *Service) runLint(ctx context.Context, summary *Summary) error {
	for _, task := range s.config.Lint {
		config := lint.DefaultConfig()
		if len(task.Patterns) > 0 {
			var err error
			if config, err = lint.NewConfig(task.Patterns); err != nil {
				return err
			}
		}
		matches, err := lint.New(config).Run(ctx, lint.Request{
			Location: s.properties.Expand(task.Path),
			Include:  task.Include,
			Exclude:  task.Exclude,
		})
		if err != nil {
			summary.Failures++
			if s.config.FailOnError {
				return err
			}
			s.logf("lint: %v (continuing)", err)
			continue
		}
		for _, match := range matches {
			s.logf("lint: %s:%d [%s] %s", match.URL, match.Line, match.Rule, match.Text)
		}
		summary.LintMatches += len(matches)
		if len(matches) > 0 && s.config.FailOnError {
			return fmt.Errorf("service: lint found %d match(es) in %s", len(matches), task.Path)
		}
	}
	return nil
}

func (s *Service) runTests(ctx context.Context, summary *Summary) error {
	for _, task := range s.config.Tests {
		run := &runner.Runner{
			Command: s.properties.Expand(task.Command),
			Args:    task.Args,
			Dir:     s.properties.Expand(task.Dir),
			Timeout: time.Duration(task.TimeoutSeconds) * time.Second,
		}
		result, err := run.Run(ctx)
		if err != nil {
			summary.Failures++
			if s.config.FailOnError {
				return err
			}
			s.logf("tests: %v (continuing)", err)
			continue
		}
		summary.TestsRun++
		if result.Failed() {
			summary.Failures++
			s.logf("tests: %s exited %d after %s", task.Command, result.ExitCode, result.Duration)
			if s.config.FailOnError {
				return fmt.Errorf("service: test command %s exited %d", task.Command, result.ExitCode)
			}
		}
	}
	return nil
}
