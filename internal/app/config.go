package app

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidConfig is wrapped by every validation error of NewConfig.
var ErrInvalidConfig = errors.New("invalid configuration")

// Sentence formats.
const (
	FormatCoNLLU  = "conllu"
	FormatCompact = "compact"
)

// Rewrite modes.
const (
	// ModeIterate runs every pattern to a fixpoint, in rule order, and writes
	// one graph per sentence.
	ModeIterate = "iterate"
	// ModeExpand writes every distinct single-match rewrite of each sentence.
	ModeExpand = "expand"
	// ModeExhaust feeds expand results back in a bounded number of times.
	ModeExhaust = "exhaust"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	RulesPaths []string // hcl files or directories
	// InputPath is read instead of the caller's reader when set; "-" means
	// the caller's reader too.
	InputPath    string
	InputFormat  string
	OutputFormat string
	Mode         string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
}

// NewConfig validates cfg and fills in defaults for empty fields.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.RulesPaths) == 0 {
		return nil, fmt.Errorf("%w: at least one rules path is required", ErrInvalidConfig)
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = FormatCoNLLU
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = cfg.InputFormat
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeIterate
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}

	formats := []string{FormatCoNLLU, FormatCompact}
	if !slices.Contains(formats, cfg.InputFormat) {
		return nil, fmt.Errorf("%w: input format %q: must be one of %v", ErrInvalidConfig, cfg.InputFormat, formats)
	}
	if !slices.Contains(formats, cfg.OutputFormat) {
		return nil, fmt.Errorf("%w: output format %q: must be one of %v", ErrInvalidConfig, cfg.OutputFormat, formats)
	}
	modes := []string{ModeIterate, ModeExpand, ModeExhaust}
	if !slices.Contains(modes, cfg.Mode) {
		return nil, fmt.Errorf("%w: mode %q: must be one of %v", ErrInvalidConfig, cfg.Mode, modes)
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("%w: healthcheck port %d out of range", ErrInvalidConfig, cfg.HealthcheckPort)
	}

	return &cfg, nil
}
