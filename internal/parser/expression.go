package parser

import (
	"mend/internal/diag"
	"mend/internal/syntax"
	"mend/internal/token"
)

// parseExpr — Pratt: unary, затем бинарные с приоритетом > minPrec.
func (p *Parser) parseExpr(minPrec int) *syntax.Node {
	lhs := p.parseUnary()
	for {
		prec := binaryPrec(p.lx.Peek().Kind)
		if prec <= minPrec {
			return lhs
		}
		op := syntax.Leaf(p.advance())
		rhs := p.parseExpr(prec)
		lhs = &syntax.Node{Kind: syntax.KindBinary, Children: []*syntax.Node{lhs, op, rhs}}
	}
}

func (p *Parser) parseUnary() *syntax.Node {
	if p.atOr(token.Minus, token.Bang) {
		op := syntax.Leaf(p.advance())
		return &syntax.Node{Kind: syntax.KindUnary, Children: []*syntax.Node{op, p.parseUnary()}}
	}
	return p.parsePostfix(p.parsePrimary())
}

// callee(args)...
func (p *Parser) parsePostfix(expr *syntax.Node) *syntax.Node {
	for p.at(token.LParen) {
		children := []*syntax.Node{expr, syntax.Leaf(p.advance())}
		if !p.at(token.RParen) {
			for {
				children = append(children, p.parseExpr(0))
				if !p.at(token.Comma) {
					break
				}
				children = append(children, syntax.Leaf(p.advance()))
			}
		}
		children = append(children, p.expectLeaf(token.RParen, diag.SynUnclosedParen, "expected ')' to close call arguments"))
		expr = &syntax.Node{Kind: syntax.KindCall, Children: children}
	}
	return expr
}

func (p *Parser) parsePrimary() *syntax.Node {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident, token.IntLit, token.StringLit, token.KwTrue, token.KwFalse:
		return syntax.Leaf(p.advance())
	case token.LParen:
		open := syntax.Leaf(p.advance())
		inner := p.parseExpr(0)
		closeParen := p.expectLeaf(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return &syntax.Node{Kind: syntax.KindParen, Children: []*syntax.Node{open, inner, closeParen}}
	case token.Invalid:
		// лексер уже отрепортил
		return &syntax.Node{Kind: syntax.KindError, Children: []*syntax.Node{syntax.Leaf(p.advance())}}
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+p.describePeek())
	return &syntax.Node{Kind: syntax.KindError}
}
