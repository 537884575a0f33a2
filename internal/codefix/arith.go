package codefix

import (
	"context"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/lint"
	"mend/internal/syntax"
	"mend/internal/workspace"
)

// IdentityArith drops "+ 0", "- 0", "* 1", "/ 1" and their mirrored forms.
type IdentityArith struct{}

func (IdentityArith) Name() string { return "remove-identity-arith" }

func (IdentityArith) FixableCodes() []diag.Code {
	return []diag.Code{diag.LintIdentityArith}
}

func (IdentityArith) Title(diag.Diagnostic) string { return "Remove operation without effect" }

func (IdentityArith) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	ids, err := targets(ed.Tree(), ds, func(n *syntax.Node) bool {
		_, ok := lint.IdentityOperand(n)
		return ok
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ed.ReplaceNodeWith(id, dropIdentity); err != nil {
			return err
		}
	}
	return nil
}

func dropIdentity(cur *syntax.Node) *syntax.Node {
	keep, ok := lint.IdentityOperand(cur)
	if !ok {
		return cur
	}
	// всё, кроме keep, уходит вместе с комментариями
	for _, c := range cur.Children {
		if c == keep {
			continue
		}
		if hasComment(c) {
			return cur
		}
	}
	if keep != cur.Left() && leadingComment(keep) {
		return cur
	}
	return hoist(keep, cur)
}
