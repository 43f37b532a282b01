package cplusplus

// Node is a syntax tree node. FirstToken is the index of its first token and
// LastToken is one past its last token.
type Node interface {
	Kind() string
	FirstToken() int
	LastToken() int
	Children() []Node
}

// HasTokenSpan reports whether node covers at least one real token. Nodes
// without a span are placeholders produced by error recovery.
func HasTokenSpan(node Node) bool {
	if node == nil {
		return false
	}
	return node.FirstToken() > 0 && node.LastToken() > node.FirstToken()
}

// Visitor is called for each node by Walk. Returning nil skips the subtree.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses the tree rooted at node in pre-order.
func Walk(v Visitor, node Node) {
	if v == nil || node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range node.Children() {
		Walk(v, child)
	}
}

// SyntaxNode is the concrete Node produced by the parser.
type SyntaxNode struct {
	kind       string
	firstToken int
	lastToken  int
	children   []Node
}

func NewSyntaxNode(kind string, firstToken, lastToken int, children ...Node) *SyntaxNode {
	return &SyntaxNode{
		kind:       kind,
		firstToken: firstToken,
		lastToken:  lastToken,
		children:   children,
	}
}

func (n *SyntaxNode) Kind() string {
	return n.kind
}

func (n *SyntaxNode) FirstToken() int {
	return n.firstToken
}

func (n *SyntaxNode) LastToken() int {
	return n.lastToken
}

func (n *SyntaxNode) Children() []Node {
	return n.children
}

// ChildOfKind returns the first direct child of the given kind.
func ChildOfKind(node Node, kind string) Node {
	if node == nil {
		return nil
	}
	for _, c := range node.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}
