package codefix

import (
	"context"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/fix"
	"mend/internal/lint"
	"mend/internal/syntax"
	"mend/internal/workspace"
)

// SelfCompare folds x == x and friends to a literal. Operands may be calls
// with side effects, hence SafeWithHeuristics.
type SelfCompare struct{}

func (SelfCompare) Name() string { return "fold-self-compare" }

func (SelfCompare) FixableCodes() []diag.Code {
	return []diag.Code{diag.LintSelfCompare}
}

func (SelfCompare) Title(d diag.Diagnostic) string {
	if v := d.Property("value"); v != "" {
		return "Replace with '" + v + "'"
	}
	return "Replace self-comparison with its value"
}

func (SelfCompare) Applicability(diag.Diagnostic) fix.Applicability {
	return fix.SafeWithHeuristics
}

func (SelfCompare) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	ids, err := targets(ed.Tree(), ds, func(n *syntax.Node) bool {
		_, ok := lint.SelfComparison(n)
		return ok
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ed.ReplaceNodeWith(id, foldSelfCompare); err != nil {
			return err
		}
	}
	return nil
}

func foldSelfCompare(cur *syntax.Node) *syntax.Node {
	val, ok := lint.SelfComparison(cur)
	if !ok || hasComment(syntax.StripLeading(cur)) {
		return cur
	}
	return hoist(syntax.NewBool(val), cur)
}
