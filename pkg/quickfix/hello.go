package quickfix

import (
	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
	"github.com/lavigneer/cppquickfix-lsp/pkg/textedit"
)

// HelloOperation does nothing. It is the template for new operations.
type HelloOperation struct {
	BaseOperation
}

func NewHelloOperation(state *State) *HelloOperation {
	return &HelloOperation{BaseOperation: NewBaseOperation(state)}
}

func (op *HelloOperation) Description() string {
	return "Hello"
}

func (op *HelloOperation) Apply(textedit.Cursor) {}

type HelloProvider struct{}

func (p *HelloProvider) Name() string {
	return "hello"
}

func (p *HelloProvider) Enabled(settings config.QuickFix) bool {
	return settings.ProviderEnabled(p.Name(), false)
}

func (p *HelloProvider) Offer(state *State, path []cplusplus.Node) []Operation {
	if len(path) == 0 {
		return nil
	}
	return []Operation{NewHelloOperation(state)}
}
