package quickfix

import (
	"fmt"

	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

// mirroredOperators maps an operator to the one that keeps the meaning of the
// expression when its operands trade places.
var mirroredOperators = map[string]string{
	"<":  ">",
	">":  "<",
	"<=": ">=",
	">=": "<=",
	"==": "==",
	"!=": "!=",
	"+":  "+",
	"*":  "*",
	"&":  "&",
	"|":  "|",
	"^":  "^",
}

// precedence ranks binary operators from loosest to tightest binding.
var precedence = map[string]int{
	"||":  1,
	"or":  1,
	"&&":  2,
	"and": 2,
	"|":   3,
	"^":   4,
	"&":   5,
	"==":  6,
	"!=":  6,
	"<":   7,
	">":   7,
	"<=":  7,
	">=":  7,
	"<=>": 8,
	"<<":  9,
	">>":  9,
	"+":   10,
	"-":   10,
	"*":   11,
	"/":   11,
	"%":   11,
}

// binaryOperator returns the operator token of a binary expression.
func binaryOperator(node cplusplus.Node) (int, bool) {
	if node.Kind() != "binary_expression" || len(node.Children()) != 2 {
		return 0, false
	}
	left, right := node.Children()[0], node.Children()[1]
	if !cplusplus.HasTokenSpan(left) || !cplusplus.HasTokenSpan(right) {
		return 0, false
	}
	// Tokens are contiguous, so the operator sits between the operands.
	operator := left.LastToken()
	if operator+1 != right.FirstToken() {
		return 0, false
	}
	return operator, true
}

// movable reports whether operand keeps its grouping when it changes sides of
// an operator with rank outer. Unparenthesized binary operands must bind
// tighter than the outer operator.
func movable(unit *cplusplus.TranslationUnit, operand cplusplus.Node, outer int) bool {
	if operand.Kind() != "binary_expression" {
		return true
	}
	operator, ok := binaryOperator(operand)
	if !ok {
		return false
	}
	return precedence[unit.TokenAt(operator).Kind] > outer
}

// SwapOperandsOperation rewrites `a < b` as `b > a`.
type SwapOperandsOperation struct {
	BaseOperation
	left        cplusplus.Node
	right       cplusplus.Node
	operator    int
	replacement string
}

func (op *SwapOperandsOperation) Description() string {
	if op.replacement == op.Document().TranslationUnit().Spell(op.operator) {
		return "Swap operands"
	}
	return fmt.Sprintf("Rewrite using %s", op.replacement)
}

// Apply edits from the back of the expression to the front so the token
// positions computed at parse time stay valid.
func (op *SwapOperandsOperation) Apply(textedit.Cursor) {
	leftText := op.Text(op.left)
	rightText := op.Text(op.right)

	tc := op.CursorForNode(op.right)
	tc.InsertText(leftText)

	tc = op.CursorForToken(op.operator)
	tc.InsertText(op.replacement)

	tc = op.CursorForNode(op.left)
	tc.InsertText(rightText)
}

type SwapOperandsProvider struct{}

func (p *SwapOperandsProvider) Name() string {
	return "swap-operands"
}

func (p *SwapOperandsProvider) Enabled(settings config.QuickFix) bool {
	return settings.ProviderEnabled(p.Name(), true)
}

func (p *SwapOperandsProvider) Offer(state *State, path []cplusplus.Node) []Operation {
	binary, _ := FindInnermost(path, "binary_expression")
	if binary == nil {
		return nil
	}
	operator, ok := binaryOperator(binary)
	if !ok {
		return nil
	}
	unit := state.Doc.TranslationUnit()
	kind := unit.TokenAt(operator).Kind
	replacement, ok := mirroredOperators[kind]
	if !ok {
		return nil
	}
	left, right := binary.Children()[0], binary.Children()[1]
	if !movable(unit, left, precedence[kind]) || !movable(unit, right, precedence[kind]) {
		return nil
	}
	return []Operation{&SwapOperandsOperation{
		BaseOperation: NewBaseOperation(state),
		left:          left,
		right:         right,
		operator:      operator,
		replacement:   replacement,
	}}
}
