package codefix

import (
	"context"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/lint"
	"mend/internal/parser"
	"mend/internal/syntax"
	"mend/internal/token"
	"mend/internal/workspace"
)

// BoolCompare rewrites x == true to x and x == false to !x.
type BoolCompare struct{}

func (BoolCompare) Name() string { return "simplify-bool-compare" }

func (BoolCompare) FixableCodes() []diag.Code {
	return []diag.Code{diag.LintBoolCompare}
}

func (BoolCompare) Title(d diag.Diagnostic) string {
	if d.Property("negate") == "true" {
		return "Replace comparison with negation"
	}
	return "Remove comparison with boolean literal"
}

func (BoolCompare) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	ids, err := targets(ed.Tree(), ds, func(n *syntax.Node) bool {
		_, _, ok := lint.BoolComparison(n)
		return ok
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ed.ReplaceNodeWith(id, simplifyBool); err != nil {
			return err
		}
	}
	return nil
}

func simplifyBool(cur *syntax.Node) *syntax.Node {
	operand, negate, ok := lint.BoolComparison(cur)
	if !ok {
		return cur
	}
	for _, c := range cur.Children {
		if c != operand && hasComment(c) {
			return cur
		}
	}
	if operand != cur.Left() && leadingComment(operand) {
		return cur
	}
	body := syntax.StripLeading(operand)
	if !negate {
		return hoist(body, cur)
	}
	neg := syntax.NewUnary(token.Bang, body)
	if parser.NeedsParens(body, neg, 1) {
		neg = syntax.NewUnary(token.Bang, syntax.NewParen(body))
	}
	return hoist(neg, cur)
}
