package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lavigneer/cppquickfix-lsp/pkg/project"
	"github.com/lavigneer/cppquickfix-lsp/pkg/quickfix"
	"github.com/lavigneer/cppquickfix-lsp/pkg/reporter"
	"github.com/lavigneer/cppquickfix-lsp/pkg/util"
	mcp_golang "github.com/metoro-io/mcp-golang"
)

type Executor struct {
	workspace *project.Project
}

func New(workspace *project.Project) *Executor {
	return &Executor{workspace: workspace}
}

func (e *Executor) Register(server *mcp_golang.Server) error {
	var errs error
	err := server.RegisterTool("ast_path", "Lists the C++ syntax nodes that contain a position, outermost first", e.handleASTPath)
	errs = errors.Join(errs, err)
	err = server.RegisterTool("quick_fixes", "Lists the quick fixes available at a position in a C++ file", e.handleQuickFixes)
	errs = errors.Join(errs, err)
	err = server.RegisterTool("apply_quick_fix", "Applies a quick fix at a position and returns the new file content", e.handleApplyQuickFix)
	errs = errors.Join(errs, err)
	err = server.RegisterTool("list_quick_fix_providers", "Lists the quick fix providers this server knows", e.handleListProviders)
	errs = errors.Join(errs, err)
	return errs
}

type PositionArgs struct {
	File   string `json:"file" jsonschema:"required,description=Path of the C++ file, absolute or relative to the workspace root"`
	Line   int    `json:"line" jsonschema:"required,description=1-based line"`
	Column int    `json:"column" jsonschema:"required,description=1-based byte column"`
}

type ApplyArgs struct {
	PositionArgs
	Index int `json:"index" jsonschema:"required,description=Index of the quick fix as listed by quick_fixes"`
}

type EmptyArgs struct{}

func (e *Executor) handleASTPath(arguments PositionArgs) (*mcp_golang.ToolResponse, error) {
	result, err := e.inspect(arguments)
	if err != nil {
		return nil, err
	}
	out, err := util.MarshalYAML(context.Background(), result.Path)
	if err != nil {
		return nil, err
	}
	return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(out)), nil
}

func (e *Executor) handleQuickFixes(arguments PositionArgs) (*mcp_golang.ToolResponse, error) {
	text, err := e.QuickFixes(arguments)
	if err != nil {
		return nil, err
	}
	return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(text)), nil
}

func (e *Executor) handleApplyQuickFix(arguments ApplyArgs) (*mcp_golang.ToolResponse, error) {
	ctx := context.Background()
	if err := e.workspace.AddFile(ctx, arguments.File); err != nil {
		return nil, err
	}
	text, err := e.workspace.Apply(ctx, arguments.File, arguments.Line, arguments.Column, arguments.Index)
	if err != nil {
		return nil, err
	}
	return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(text)), nil
}

func (e *Executor) handleListProviders(EmptyArgs) (*mcp_golang.ToolResponse, error) {
	return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(strings.Join(quickfix.ProviderNames(), ", "))), nil
}

// QuickFixes renders the quick fixes at a position as an indexed list.
func (e *Executor) QuickFixes(arguments PositionArgs) (string, error) {
	result, err := e.inspect(arguments)
	if err != nil {
		return "", err
	}
	if len(result.QuickFixes) == 0 {
		return fmt.Sprintf("no quick fixes at %s:%d:%d (%s)", arguments.File, arguments.Line, arguments.Column, result.Reason), nil
	}
	lines := make([]string, 0, len(result.QuickFixes))
	for i, q := range result.QuickFixes {
		lines = append(lines, fmt.Sprintf("%d: %s", i, q))
	}
	return strings.Join(lines, "\n"), nil
}

// inspect reloads the file so answers follow edits made outside the server.
func (e *Executor) inspect(arguments PositionArgs) (reporter.Result, error) {
	if err := e.workspace.AddFile(context.Background(), arguments.File); err != nil {
		return reporter.Result{}, err
	}
	return e.workspace.Inspect(arguments.File, arguments.Line, arguments.Column)
}
