package reporter

import (
	"context"
	"io"
)

// PathEntry is one node of an AST path with 1-based positions.
type PathEntry struct {
	Kind        string `yaml:"kind"`
	StartLine   int    `yaml:"start_line"`
	StartColumn int    `yaml:"start_column"`
	EndLine     int    `yaml:"end_line"`
	EndColumn   int    `yaml:"end_column"`
}

// Result is what the check command found at one location.
type Result struct {
	File       string      `yaml:"file"`
	Line       int         `yaml:"line"`
	Column     int         `yaml:"column"`
	Path       []PathEntry `yaml:"path"`
	QuickFixes []string    `yaml:"quick_fixes"`
	Reason     string      `yaml:"reason,omitempty"`
}

type Reporter interface {
	Report(ctx context.Context, results []Result) error
}

// New returns the reporter for format, falling back to the text reporter.
//
//nolint:ireturn
func New(format string, out io.Writer) Reporter {
	if format == "yaml" {
		return &YAML{Out: out}
	}
	return &Default{Out: out}
}
