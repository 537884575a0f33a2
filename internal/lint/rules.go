package lint

import (
	"strconv"

	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/syntax"
	"mend/internal/token"
)

var RedundantParens = &Analyzer{
	Code:  diag.LintRedundantParens,
	Doc:   "parentheses that do not change how the expression parses",
	Visit: visitParens,
}

var DoubleNegation = &Analyzer{
	Code:  diag.LintDoubleNegation,
	Doc:   "!!x and - -x",
	Visit: visitDoubleNegation,
}

var IdentityArith = &Analyzer{
	Code:  diag.LintIdentityArith,
	Doc:   "x + 0, x - 0, x * 1, x / 1",
	Visit: visitIdentity,
}

var BoolCompare = &Analyzer{
	Code:  diag.LintBoolCompare,
	Doc:   "comparison with a boolean literal",
	Visit: visitBoolCompare,
}

var SelfCompare = &Analyzer{
	Code:  diag.LintSelfCompare,
	Doc:   "comparison of an expression with itself",
	Visit: visitSelfCompare,
}

// RedundantGroup reports whether the Paren node n can be dropped when it
// sits at index of parent.
func RedundantGroup(n, parent *syntax.Node, index int) bool {
	if n == nil || n.Kind != syntax.KindParen || parent == nil {
		return false
	}
	inner := n.Inner()
	if inner == nil || inner.Kind == syntax.KindError || inner.IsMissing() {
		return false
	}
	if closing := n.Child(2); closing == nil || closing.IsMissing() {
		return false
	}
	return !parser.NeedsParens(inner, parent, index)
}

func visitParens(p *Pass, id syntax.NodeID, n *syntax.Node) {
	parent := p.Tree.Parent(id)
	if parent == syntax.NoNodeID || !RedundantGroup(n, p.Tree.Node(parent), p.Tree.IndexInParent(id)) {
		return
	}
	p.Report(id, "redundant parentheses around %s", describe(n.Inner())).Emit()
	// скобки сами по себе — бледные диагностики того же правила
	kids := p.Tree.Children(id)
	for _, c := range []syntax.NodeID{kids[0], kids[len(kids)-1]} {
		diag.ReportInfo(p.reporter, p.analyzer.Code, p.Tree.Span(c), "unnecessary parenthesis").
			WithTag(diag.TagUnnecessary).
			Emit()
	}
}

// NegatedTwice returns the operand under two identical prefix operators.
func NegatedTwice(n *syntax.Node) (*syntax.Node, bool) {
	if n.Kind != syntax.KindUnary {
		return nil, false
	}
	inner := n.Operand()
	if inner == nil || inner.Kind != syntax.KindUnary || inner.OperatorKind() != n.OperatorKind() {
		return nil, false
	}
	return inner.Operand(), true
}

func visitDoubleNegation(p *Pass, id syntax.NodeID, n *syntax.Node) {
	if _, ok := NegatedTwice(n); !ok {
		return
	}
	// !!!x: сообщаем только о внешней паре
	if parent := p.Parent(id); parent != nil {
		if _, ok := NegatedTwice(parent); ok {
			return
		}
	}
	op := n.OperatorKind().Spelling()
	p.Report(id, "double %q cancels out", op).WithProperty("operator", op).Emit()
}

// IdentityOperand returns the operand that survives x+0, 0+x, x-0, x*1,
// 1*x and x/1.
func IdentityOperand(n *syntax.Node) (*syntax.Node, bool) {
	if n.Kind != syntax.KindBinary {
		return nil, false
	}
	l, r := n.Left(), n.Right()
	switch n.OperatorKind() {
	case token.Plus:
		if isInt(r, 0) {
			return l, true
		}
		if isInt(l, 0) {
			return r, true
		}
	case token.Minus:
		if isInt(r, 0) {
			return l, true
		}
	case token.Star:
		if isInt(r, 1) {
			return l, true
		}
		if isInt(l, 1) {
			return r, true
		}
	case token.Slash:
		if isInt(r, 1) {
			return l, true
		}
	}
	return nil, false
}

func visitIdentity(p *Pass, id syntax.NodeID, n *syntax.Node) {
	keep, ok := IdentityOperand(n)
	if !ok {
		return
	}
	side := "left"
	if keep == n.Right() {
		side = "right"
	}
	p.Report(id, "%q has no effect here", n.OperatorKind().Spelling()).WithProperty("keep", side).Emit()
}

// BoolComparison splits x == true and friends into the non-literal operand
// and whether it has to be negated.
func BoolComparison(n *syntax.Node) (operand *syntax.Node, negate bool, ok bool) {
	if n.Kind != syntax.KindBinary {
		return nil, false, false
	}
	op := n.OperatorKind()
	if op != token.EqEq && op != token.BangEq {
		return nil, false, false
	}
	l, r := n.Left(), n.Right()
	lit, other := r, l
	if _, isLit := boolValue(r); !isLit {
		lit, other = l, r
	}
	val, isLit := boolValue(lit)
	if !isLit {
		return nil, false, false
	}
	if _, both := boolValue(other); both {
		return nil, false, false
	}
	// x == true и x != false оставляют x
	keep := (op == token.EqEq) == val
	return other, !keep, true
}

func visitBoolCompare(p *Pass, id syntax.NodeID, n *syntax.Node) {
	_, negate, ok := BoolComparison(n)
	if !ok {
		return
	}
	msg := "comparison with a boolean literal can be simplified"
	p.Report(id, "%s", msg).WithProperty("negate", strconv.FormatBool(negate)).Emit()
}

// SelfComparison returns the constant value of x op x for comparison
// operators.
func SelfComparison(n *syntax.Node) (bool, bool) {
	if n.Kind != syntax.KindBinary {
		return false, false
	}
	var val bool
	switch n.OperatorKind() {
	case token.EqEq, token.LtEq, token.GtEq:
		val = true
	case token.BangEq, token.Lt, token.Gt:
		val = false
	default:
		return false, false
	}
	l, r := n.Left(), n.Right()
	if hasError(l) || hasError(r) || !syntax.EquivalentExpr(l, r) {
		return false, false
	}
	return val, true
}

func visitSelfCompare(p *Pass, id syntax.NodeID, n *syntax.Node) {
	val, ok := SelfComparison(n)
	if !ok {
		return
	}
	p.Report(id, "%s compared with itself is always %t", describe(n.Left()), val).
		WithProperty("value", strconv.FormatBool(val)).
		Emit()
}

func isInt(n *syntax.Node, v int) bool {
	if n == nil || n.Kind != syntax.KindLiteral || n.Token.Kind != token.IntLit {
		return false
	}
	got, err := strconv.Atoi(n.Token.Text)
	return err == nil && got == v
}

func boolValue(n *syntax.Node) (bool, bool) {
	if n == nil || n.Kind != syntax.KindLiteral {
		return false, false
	}
	switch n.Token.Kind {
	case token.KwTrue:
		return true, true
	case token.KwFalse:
		return false, true
	}
	return false, false
}

func hasError(n *syntax.Node) bool {
	if n == nil {
		return true
	}
	if n.Kind == syntax.KindError || n.IsMissing() {
		return true
	}
	for _, c := range n.Children {
		if hasError(c) {
			return true
		}
	}
	return false
}

// describe — короткое имя выражения для сообщений
func describe(n *syntax.Node) string {
	text := n.TrimmedText()
	if len(text) <= 24 {
		return "'" + text + "'"
	}
	return "expression"
}
