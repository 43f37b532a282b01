package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

type Default struct {
	Out io.Writer
}

func (d *Default) Report(_ context.Context, results []Result) error {
	writer := tabwriter.NewWriter(d.Out, 0, 8, 1, '\t', 0)
	kind := color.New(color.FgCyan).SprintFunc()
	fix := color.New(color.FgGreen).SprintFunc()
	totalFixes := 0
	for _, r := range results {
		fmt.Fprintf(d.Out, "%s:%d:%d\n", r.File, r.Line, r.Column)
		if len(r.Path) == 0 {
			fmt.Fprintln(d.Out, "\tno enclosing node")
		}
		for depth, p := range r.Path {
			fmt.Fprintf(writer, "\t%s%s\t%d:%d-%d:%d\n", strings.Repeat("  ", depth), kind(p.Kind), p.StartLine, p.StartColumn, p.EndLine, p.EndColumn)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
		for i, q := range r.QuickFixes {
			fmt.Fprintf(d.Out, "\t[%d] %s\n", i, fix(q))
		}
		if r.Reason != "" {
			fmt.Fprintf(d.Out, "\t%s\n", r.Reason)
		}
		totalFixes += len(r.QuickFixes)
		fmt.Fprintln(d.Out)
	}
	fmt.Fprintf(d.Out, "%d locations, %d quick fixes\n", len(results), totalFixes)
	return nil
}
