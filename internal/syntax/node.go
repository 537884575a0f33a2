package syntax

import (
	"slices"
	"strings"

	"mend/internal/token"
)

type Node struct {
	Kind     Kind
	Token    token.Token // только для листьев
	Children []*Node
}

// FirstToken returns the first leaf token in pre-order, if any.
func (n *Node) FirstToken() (token.Token, bool) {
	if n == nil {
		return token.Token{}, false
	}
	if n.Kind.IsLeaf() {
		return n.Token, true
	}
	for _, c := range n.Children {
		if t, ok := c.FirstToken(); ok {
			return t, true
		}
	}
	return token.Token{}, false
}

// Leading returns the leading trivia of the first token.
func (n *Node) Leading() []token.Trivia {
	t, _ := n.FirstToken()
	return t.Leading
}

// WithLeading returns a copy of n whose first token carries trivia. Only the
// path down to the first leaf is copied.
func (n *Node) WithLeading(trivia []token.Trivia) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Kind.IsLeaf() {
		cp.Token.Leading = slices.Clone(trivia)
		return &cp
	}
	for i, c := range n.Children {
		if _, ok := c.FirstToken(); ok {
			cp.Children = slices.Clone(n.Children)
			cp.Children[i] = c.WithLeading(trivia)
			return &cp
		}
	}
	return &cp
}

// WithLeadingFrom copies the leading trivia of other onto n.
func (n *Node) WithLeadingFrom(other *Node) *Node {
	return n.WithLeading(other.Leading())
}

// WithChildren returns a shallow copy of n with new children.
func (n *Node) WithChildren(children []*Node) *Node {
	cp := *n
	cp.Children = children
	return &cp
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Text renders the node including leading trivia of its first token.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

// TrimmedText renders the node without the leading trivia of its first token.
func (n *Node) TrimmedText() string {
	return strings.TrimPrefix(n.Text(), token.Token{Leading: n.Leading()}.LeadingText())
}

func (n *Node) writeText(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind.IsLeaf() {
		for _, tr := range n.Token.Leading {
			sb.WriteString(tr.Text)
		}
		sb.WriteString(n.Token.Text)
		return
	}
	for _, c := range n.Children {
		c.writeText(sb)
	}
}

// accessors, nil when the shape does not match

// Operator returns the operator leaf of a Binary or Unary node.
func (n *Node) Operator() *Node {
	switch n.Kind {
	case KindBinary:
		return n.Child(1)
	case KindUnary:
		return n.Child(0)
	}
	return nil
}

// OperatorKind returns the token kind of the operator, Invalid otherwise.
func (n *Node) OperatorKind() token.Kind {
	if op := n.Operator(); op != nil {
		return op.Token.Kind
	}
	return token.Invalid
}

// Left and Right return the operands of a Binary node.
func (n *Node) Left() *Node {
	if n.Kind != KindBinary {
		return nil
	}
	return n.Child(0)
}

func (n *Node) Right() *Node {
	if n.Kind != KindBinary {
		return nil
	}
	return n.Child(2)
}

// Operand returns the operand of a Unary node.
func (n *Node) Operand() *Node {
	if n.Kind != KindUnary {
		return nil
	}
	return n.Child(1)
}

// Inner returns the expression inside a Paren node.
func (n *Node) Inner() *Node {
	if n.Kind != KindParen {
		return nil
	}
	return n.Child(1)
}

// Semicolon returns the terminating ';' leaf of a statement.
func (n *Node) Semicolon() *Node {
	switch n.Kind {
	case KindLet, KindExprStmt:
		if last := n.Child(len(n.Children) - 1); last != nil && last.Kind == KindToken && last.Token.Kind == token.Semicolon {
			return last
		}
	}
	return nil
}

// IsMissing reports a leaf synthesised by parser recovery.
func (n *Node) IsMissing() bool {
	return n != nil && n.Kind.IsLeaf() && n.Token.Missing
}
