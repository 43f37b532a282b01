package quickfix

import (
	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

// AddBracesOperation wraps a branch of an if statement in a compound statement.
type AddBracesOperation struct {
	BaseOperation
	body cplusplus.Node
}

func (op *AddBracesOperation) Description() string {
	return "Add curly braces"
}

func (op *AddBracesOperation) Apply(textedit.Cursor) {
	tc := op.MoveAtEndOfToken(op.body.LastToken() - 1)
	tc.InsertText(" }")

	tc = op.MoveAtStartOfToken(op.body.FirstToken())
	tc.InsertText("{ ")
}

type AddBracesProvider struct{}

func (p *AddBracesProvider) Name() string {
	return "add-braces"
}

func (p *AddBracesProvider) Enabled(settings config.QuickFix) bool {
	return settings.ProviderEnabled(p.Name(), true)
}

func (p *AddBracesProvider) Offer(state *State, path []cplusplus.Node) []Operation {
	stmt, idx := FindInnermost(path, "if_statement")
	if stmt == nil {
		return nil
	}
	body := consequence(stmt)
	if idx+1 < len(path) && path[idx+1].Kind() == "else_clause" {
		body = elseBody(path[idx+1])
		// else if chains stay as they are.
		if body != nil && body.Kind() == "if_statement" {
			return nil
		}
	}
	if body == nil || body.Kind() == "compound_statement" || !cplusplus.HasTokenSpan(body) {
		return nil
	}
	return []Operation{&AddBracesOperation{
		BaseOperation: NewBaseOperation(state),
		body:          body,
	}}
}

// consequence is the statement that follows the condition of an if statement.
//
//nolint:ireturn
func consequence(stmt cplusplus.Node) cplusplus.Node {
	children := stmt.Children()
	for i, c := range children {
		if c.Kind() == "condition_clause" && i+1 < len(children) {
			return children[i+1]
		}
	}
	return nil
}

// elseBody is the statement of an else clause.
//
//nolint:ireturn
func elseBody(clause cplusplus.Node) cplusplus.Node {
	children := clause.Children()
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}
