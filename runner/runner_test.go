package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesOutput(t *testing.T) {
	r := &Runner{Command: "sh", Args: []string{"-c", "echo out; echo err >&2"}}
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failed() {
		t.Fatalf("unexpected exit code %d", result.ExitCode)
	}
	if !strings.Contains(result.Output, "out") || !strings.Contains(result.Output, "err") {
		t.Fatalf("combined output missing streams: %q", result.Output)
	}
}

func TestRunReportsExitCode(t *testing.T) {
	r := &Runner{Command: "sh", Args: []string{"-c", "exit 3"}}
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if result.ExitCode != 3 || !result.Failed() {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
}

func TestRunNoCommand(t *testing.T) {
	_, err := (&Runner{}).Run(context.Background())
	if !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := &Runner{Command: "definitely-not-a-real-binary-1b2c"}
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatalf("expected start error")
	}
}

func TestRunHonorsDir(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{Command: "pwd", Dir: dir}
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(result.Output, dir) {
		t.Fatalf("expected %q in output %q", dir, result.Output)
	}
}

func TestRunTimeout(t *testing.T) {
	r := &Runner{Command: "sleep", Args: []string{"5"}, Timeout: 50 * time.Millisecond}
	result, err := r.Run(context.Background())
	if err == nil && !result.Failed() {
		t.Fatalf("expected the run to be cut short")
	}
}
