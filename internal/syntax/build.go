package syntax

import (
	"mend/internal/token"
)

// Constructors for synthesised nodes. Tokens get no span: the owning Tree
// computes spans when it indexes the new root.

func NewToken(k token.Kind, text string) *Node {
	return &Node{Kind: KindToken, Token: token.Token{Kind: k, Text: text}}
}

// NewOp builds an operator leaf using the canonical spelling of k.
func NewOp(k token.Kind) *Node {
	return NewToken(k, k.Spelling())
}

func NewName(name string) *Node {
	return &Node{Kind: KindName, Token: token.Token{Kind: token.Ident, Text: name}}
}

func NewBool(v bool) *Node {
	if v {
		return &Node{Kind: KindLiteral, Token: token.Token{Kind: token.KwTrue, Text: "true"}}
	}
	return &Node{Kind: KindLiteral, Token: token.Token{Kind: token.KwFalse, Text: "false"}}
}

func NewInt(text string) *Node {
	return &Node{Kind: KindLiteral, Token: token.Token{Kind: token.IntLit, Text: text}}
}

// Leaf wraps a lexed token into a leaf of the matching kind.
func Leaf(t token.Token) *Node {
	switch {
	case t.Kind == token.Ident:
		return &Node{Kind: KindName, Token: t}
	case t.IsLiteral():
		return &Node{Kind: KindLiteral, Token: t}
	}
	return &Node{Kind: KindToken, Token: t}
}

// Missing builds an empty placeholder leaf for parser recovery.
func Missing(k token.Kind) *Node {
	return &Node{Kind: KindToken, Token: token.Token{Kind: k, Missing: true}}
}

// NewBinary builds lhs op rhs; op gets a single leading space, as does rhs
// when it has no trivia of its own.
func NewBinary(lhs *Node, op token.Kind, rhs *Node) *Node {
	return &Node{Kind: KindBinary, Children: []*Node{lhs, spaced(NewOp(op)), spacedIfBare(rhs)}}
}

func NewUnary(op token.Kind, operand *Node) *Node {
	return &Node{Kind: KindUnary, Children: []*Node{NewOp(op), operand}}
}

func NewParen(inner *Node) *Node {
	return &Node{Kind: KindParen, Children: []*Node{NewOp(token.LParen), inner, NewOp(token.RParen)}}
}

// NewExprStmt builds expr ';'.
func NewExprStmt(expr *Node) *Node {
	return &Node{Kind: KindExprStmt, Children: []*Node{expr, NewOp(token.Semicolon)}}
}

// NewLet builds 'let' name '=' expr ';'.
func NewLet(name string, expr *Node) *Node {
	return &Node{Kind: KindLet, Children: []*Node{
		NewToken(token.KwLet, "let"),
		spaced(NewName(name)),
		spaced(NewOp(token.Assign)),
		spacedIfBare(expr),
		NewOp(token.Semicolon),
	}}
}

// OnNewLine prefixes n with a newline unless it already starts with one.
func OnNewLine(n *Node) *Node {
	for _, tr := range n.Leading() {
		if tr.Kind == token.TriviaNewline {
			return n
		}
	}
	return n.WithLeading(append([]token.Trivia{{Kind: token.TriviaNewline, Text: "\n"}}, n.Leading()...))
}

func spaced(n *Node) *Node {
	return n.WithLeading([]token.Trivia{{Kind: token.TriviaSpace, Text: " "}})
}

func spacedIfBare(n *Node) *Node {
	if len(n.Leading()) > 0 {
		return n
	}
	return spaced(n)
}

// StripLeading removes the leading trivia of n's first token.
func StripLeading(n *Node) *Node {
	if len(n.Leading()) == 0 {
		return n
	}
	return n.WithLeading(nil)
}
