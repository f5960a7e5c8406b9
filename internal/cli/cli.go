package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/semgraft/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("semgraft", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
semgraft - rule-driven rewriting of dependency graphs.

Usage:
  semgraft [options] [RULES_PATH...]

Arguments:
  RULES_PATH
    Path to a single .hcl rule file or a directory containing .hcl files.

Sentences are read from --input (default stdin) and the rewritten graphs are
written to stdout. Logs go to stderr.

Options:
`)
		flagSet.PrintDefaults()
	}

	rulesFlag := flagSet.String("rules", "", "Path to the rule file or directory.")
	rFlag := flagSet.String("r", "", "Path to the rule file or directory (shorthand).")
	inputFlag := flagSet.String("input", "", "Sentence file to read. Empty or '-' reads stdin.")
	iFlag := flagSet.String("i", "", "Sentence file to read (shorthand).")
	inputFormatFlag := flagSet.String("input-format", app.FormatCoNLLU, "Input format. Options: 'conllu' or 'compact'.")
	outputFormatFlag := flagSet.String("output-format", "", "Output format. Options: 'conllu' or 'compact'. Defaults to the input format.")
	modeFlag := flagSet.String("mode", app.ModeIterate, "Rewrite mode. Options: 'iterate', 'expand' or 'exhaust'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of sentences rewritten concurrently.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	for _, p := range []string{*rulesFlag, *rFlag} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Rule paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No rules path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	input := *inputFlag
	if input == "" {
		input = *iFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must be at least 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RulesPaths:      paths,
		InputPath:       input,
		InputFormat:     strings.ToLower(*inputFormatFlag),
		OutputFormat:    strings.ToLower(*outputFormatFlag),
		Mode:            strings.ToLower(*modeFlag),
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
