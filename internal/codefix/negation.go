package codefix

import (
	"context"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/lint"
	"mend/internal/syntax"
	"mend/internal/workspace"
)

// DoubleNegation turns !!x and - -x into x.
type DoubleNegation struct{}

func (DoubleNegation) Name() string { return "remove-double-negation" }

func (DoubleNegation) FixableCodes() []diag.Code {
	return []diag.Code{diag.LintDoubleNegation}
}

func (DoubleNegation) Title(d diag.Diagnostic) string {
	if op := d.Property("operator"); op != "" {
		return "Remove double '" + op + "'"
	}
	return "Remove double negation"
}

func (DoubleNegation) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	ids, err := targets(ed.Tree(), ds, func(n *syntax.Node) bool {
		_, ok := lint.NegatedTwice(n)
		return ok
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ed.ReplaceNodeWith(id, dropNegations); err != nil {
			return err
		}
	}
	return nil
}

func dropNegations(cur *syntax.Node) *syntax.Node {
	operand, ok := lint.NegatedTwice(cur)
	if !ok || leadingComment(cur.Operand()) || leadingComment(operand) {
		return cur
	}
	return hoist(operand, cur)
}
