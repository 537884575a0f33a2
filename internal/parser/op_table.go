package parser

import (
	"mend/internal/syntax"
	"mend/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

// binaryPrec возвращает приоритет оператора или -1.
// Все бинарные операторы левоассоциативны.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return -1
	}
}

// Prec exposes the binding power of a binary operator to fixers that need
// to decide whether parentheses can be dropped.
func Prec(kind token.Kind) int {
	return binaryPrec(kind)
}

// PrecUnary binds tighter than any binary operator.
const PrecUnary = precMultiplicative + 1

// PrecPrimary is the binding power of leaves, calls and groups.
const PrecPrimary = PrecUnary + 1

// ExprPrec returns how tightly expression n binds.
func ExprPrec(n *syntax.Node) int {
	switch n.Kind {
	case syntax.KindBinary:
		return binaryPrec(n.OperatorKind())
	case syntax.KindUnary:
		return PrecUnary
	default:
		return PrecPrimary
	}
}

// NeedsParens reports whether e needs parentheses to stand as child index
// of parent without changing how the text parses.
func NeedsParens(e, parent *syntax.Node, index int) bool {
	if e == nil || parent == nil {
		return false
	}
	prec := ExprPrec(e)
	switch parent.Kind {
	case syntax.KindBinary:
		need := binaryPrec(parent.OperatorKind())
		if index == 2 {
			// левоассоциативность: справа нужен строго больший приоритет
			return prec <= need
		}
		return prec < need
	case syntax.KindUnary:
		return prec < PrecUnary
	case syntax.KindCall:
		return index == 0 && prec < PrecPrimary
	}
	return false
}

func startsExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.StringLit, token.KwTrue, token.KwFalse,
		token.LParen, token.Minus, token.Bang, token.Invalid:
		return true
	}
	return false
}
