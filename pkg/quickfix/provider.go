package quickfix

import (
	"github.com/lavigneer/cppquickfix-lsp/pkg/config"
	"github.com/lavigneer/cppquickfix-lsp/pkg/cplusplus"
)

// Provider offers the operations that apply to an AST path. Providers are
// asked in registration order.
type Provider interface {
	Name() string
	Enabled(settings config.QuickFix) bool
	Offer(state *State, path []cplusplus.Node) []Operation
}

var providers = []Provider{
	&HelloProvider{},
	&SwapOperandsProvider{},
	&AddBracesProvider{},
}

// Providers returns the built-in providers enabled by settings.
func Providers(settings config.QuickFix) []Provider {
	enabled := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Enabled(settings) {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// ProviderNames lists every built-in provider.
func ProviderNames() []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}
