package codefix

import (
	"context"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/syntax"
	"mend/internal/token"
	"mend/internal/workspace"
)

// MissingSemicolon fills the placeholder the parser leaves for a missing ';'.
type MissingSemicolon struct{}

func (MissingSemicolon) Name() string { return "insert-semicolon" }

func (MissingSemicolon) FixableCodes() []diag.Code {
	return []diag.Code{diag.SynExpectSemicolon}
}

func (MissingSemicolon) Title(diag.Diagnostic) string { return "Insert missing ';'" }

func (MissingSemicolon) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	tree := ed.Tree()
	ids, err := targets(tree, ds, func(n *syntax.Node) bool {
		return (n.IsMissing() && n.Token.Kind == token.Semicolon) || n.Kind == syntax.KindLet || n.Kind == syntax.KindExprStmt
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		n := tree.Node(id)
		if !n.Kind.IsLeaf() {
			// диагностика попала на сам оператор: берём его последний лист
			kids := tree.Children(id)
			last := kids[len(kids)-1]
			if !tree.Node(last).IsMissing() {
				continue
			}
			id = last
		}
		if err := ed.ReplaceNode(id, syntax.NewOp(token.Semicolon)); err != nil {
			return err
		}
	}
	return nil
}
