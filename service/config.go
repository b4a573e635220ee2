package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tillig/nant-tasks/props"
)

// Config drives one batch run.
type Config struct {
	FailOnError bool                      `yaml:"failOnError"`
	Properties  map[string]props.Property `yaml:"properties"`
	Alphabetize []AlphabetizeTask         `yaml:"alphabetize"`
	Lint        []LintTask                `yaml:"lint"`
	Tests       []TestTask                `yaml:"tests"`
}

// AlphabetizeTask selects documents to alphabetize.
type AlphabetizeTask struct {
	Path    string   `yaml:"path"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LintTask selects files to scan; Patterns overrides the default rule table.
type LintTask struct {
	Path     string            `yaml:"path"`
	Include  []string          `yaml:"include"`
	Exclude  []string          `yaml:"exclude"`
	Patterns map[string]string `yaml:"patterns"`
}

// TestTask runs one external test command.
type TestTask struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	Dir            string   `yaml:"dir"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
}

// LoadConfig reads a batch config file.
func LoadConfig(path string) (*Config, error) {
	expanded, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("service: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("service: parse config %s: %w", path, err)
	}
	for i, task := range cfg.Alphabetize {
		if task.Path == "" {
			continue
		}
		if task.Path, err = expandUserPath(task.Path); err != nil {
			return nil, err
		}
		cfg.Alphabetize[i] = task
	}
	for i, task := range cfg.Lint {
		if task.Path == "" {
			continue
		}
		if task.Path, err = expandUserPath(task.Path); err != nil {
			return nil, err
		}
		cfg.Lint[i] = task
	}
	return &cfg, nil
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if trimmed == "~" {
		return home, nil
	}
	if !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("service: unsupported ~user path: %s", path)
	}
	return filepath.Join(home, trimmed[2:]), nil
}
