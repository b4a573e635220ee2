package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/gops/agent"

	"github.com/tillig/nant-tasks/alphabetize"
	"github.com/tillig/nant-tasks/lint"
	"github.com/tillig/nant-tasks/props"
	"github.com/tillig/nant-tasks/runner"
	"github.com/tillig/nant-tasks/service"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "alphabetize":
		alphabetizeCmd(os.Args[2:])
	case "lint":
		lintCmd(os.Args[2:])
	case "delprop":
		delpropCmd(os.Args[2:])
	case "test":
		testCmd(os.Args[2:])
	case "run":
		runCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: nanttask <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  alphabetize  Sort resource document entries by name")
	fmt.Fprintln(os.Stderr, "  lint         Scan files for forbidden content (absolute paths)")
	fmt.Fprintln(os.Stderr, "  delprop      Delete a property from a property file")
	fmt.Fprintln(os.Stderr, "  test         Run an external test command")
	fmt.Fprintln(os.Stderr, "  run          Execute a batch config")
}

func alphabetizeCmd(args []string) {
	flags := flag.NewFlagSet("alphabetize", flag.ExitOnError)
	path := flags.String("path", "", "document or base directory (required)")
	include := flags.String("include", "", "comma-separated include patterns")
	exclude := flags.String("exclude", "", "comma-separated exclude patterns")
	failOnError := flags.Bool("fail-on-error", true, "abort the batch on the first failure")
	flags.Parse(args)

	if *path == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := alphabetize.New()
	response, err := svc.Run(ctx, alphabetize.Request{
		Location:    *path,
		Include:     parseCSV(*include),
		Exclude:     parseCSV(*exclude),
		FailOnError: *failOnError,
	})
	if err != nil {
		log.Fatalf("alphabetize: %v", err)
	}
	log.Printf("alphabetize: updated=%d unchanged=%d failed=%d",
		len(response.Processed), len(response.Unchanged), len(response.Failures))
	if len(response.Failures) > 0 {
		os.Exit(1)
	}
}

func lintCmd(args []string) {
	flags := flag.NewFlagSet("lint", flag.ExitOnError)
	path := flags.String("path", "", "file or base directory (required)")
	include := flags.String("include", "", "comma-separated include patterns")
	exclude := flags.String("exclude", "", "comma-separated exclude patterns")
	flags.Parse(args)

	if *path == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	matches, err := lint.New(nil).Run(ctx, lint.Request{
		Location: *path,
		Include:  parseCSV(*include),
		Exclude:  parseCSV(*exclude),
	})
	if err != nil {
		log.Fatalf("lint: %v", err)
	}
	for _, match := range matches {
		fmt.Printf("%s:%d [%s] %s\n", match.URL, match.Line, match.Rule, match.Text)
	}
	if len(matches) > 0 {
		os.Exit(1)
	}
}

func delpropCmd(args []string) {
	flags := flag.NewFlagSet("delprop", flag.ExitOnError)
	file := flags.String("file", "", "property file (required)")
	name := flags.String("name", "", "property name to delete (required)")
	flags.Parse(args)

	if *file == "" || *name == "" {
		flags.Usage()
		os.Exit(2)
	}

	properties, err := props.Load(*file)
	if err != nil {
		log.Fatalf("delprop: %v", err)
	}
	if err := properties.Delete(*name); err != nil {
		log.Fatalf("delprop: %v", err)
	}
	if err := properties.Save(*file); err != nil {
		log.Fatalf("delprop: %v", err)
	}
	log.Printf("delprop: removed %s from %s", *name, *file)
}

func testCmd(args []string) {
	flags := flag.NewFlagSet("test", flag.ExitOnError)
	command := flags.String("command", "", "test command to run (required)")
	dir := flags.String("dir", "", "working directory")
	timeout := flags.Int("timeout", 0, "timeout in seconds")
	flags.Parse(args)

	if *command == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := &runner.Runner{
		Command: *command,
		Args:    flags.Args(),
		Dir:     *dir,
		Timeout: time.Duration(*timeout) * time.Second,
	}
	result, err := run.Run(ctx)
	if err != nil {
		log.Fatalf("test: %v", err)
	}
	fmt.Print(result.Output)
	log.Printf("test: %s exited %d after %s", *command, result.ExitCode, result.Duration)
	if result.Failed() {
		os.Exit(1)
	}
}

func runCmd(args []string) {
	flags := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := flags.String("config", "", "batch config yaml (required)")
	flags.Parse(args)

	if *configPath == "" {
		flags.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := service.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	summary, err := service.New(cfg).Run(ctx)
	if summary != nil {
		log.Printf("run: alphabetized=%d unchanged=%d lint=%d tests=%d failures=%d",
			summary.Alphabetized, summary.Unchanged, summary.LintMatches, summary.TestsRun, summary.Failures)
	}
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	if summary != nil && summary.Failures > 0 {
		os.Exit(1)
	}
}

func parseCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func startGops() {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
