package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/project"
	"github.com/lavigneer/cppquickfix-lsp/pkg/reporter"
	"github.com/spf13/cobra"
)

var ErrInvalidLocation = errors.New("location must be FILE:LINE:COLUMN")

type location struct {
	file   string
	line   int
	column int
}

func parseLocation(arg string) (location, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 3 {
		return location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, arg)
	}
	n := len(parts)
	line, err := strconv.Atoi(parts[n-2])
	if err != nil || line < 1 {
		return location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, arg)
	}
	column, err := strconv.Atoi(parts[n-1])
	if err != nil || column < 1 {
		return location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, arg)
	}
	return location{file: strings.Join(parts[:n-2], ":"), line: line, column: column}, nil
}

// checkCmd prints the AST path and the quick fixes at each location
var checkCmd = &cobra.Command{
	Use:   "check FILE:LINE:COLUMN...",
	Short: "Show the syntax path and quick fixes at source locations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locations := make([]location, 0, len(args))
		files := []string{}
		seen := map[string]bool{}
		for _, arg := range args {
			loc, err := parseLocation(arg)
			if err != nil {
				return err
			}
			locations = append(locations, loc)
			if !seen[loc.file] {
				seen[loc.file] = true
				files = append(files, loc.file)
			}
		}

		cwd, _ := os.Getwd()
		cfg := config.Default()
		if workspaceRoot, err := config.FindWorkspaceRoot(cwd); err == nil {
			cfg, err = config.NewWithDefaults(cmd.Context(), workspaceRoot)
			if err != nil {
				return err
			}
		}

		p := project.New(cwd, cfg)
		if err := p.Load(cmd.Context(), files...); err != nil {
			return err
		}

		results := make([]reporter.Result, 0, len(locations))
		for _, loc := range locations {
			result, err := p.Inspect(loc.file, loc.line, loc.column)
			if err != nil {
				slog.Error("Could not inspect location", "file", loc.file, "line", loc.line, "column", loc.column, "error", err)
				result.Reason = err.Error()
			}
			results = append(results, result)
		}

		format, _ := cmd.Flags().GetString("output")
		return reporter.New(format, cmd.OutOrStdout()).Report(cmd.Context(), results)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("output", "o", "text", "Output format: text or yaml")
}
