package codefix

import (
	"context"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/parser"
	"mend/internal/syntax"
	"mend/internal/workspace"
)

// RedundantParens removes parentheses reported by the redundant-parens rule.
// The faded diagnostics on '(' and ')' lead to the same group, so batches
// take only the primary one.
type RedundantParens struct{}

func (RedundantParens) Name() string { return "remove-redundant-parens" }

func (RedundantParens) FixableCodes() []diag.Code {
	return []diag.Code{diag.LintRedundantParens}
}

func (RedundantParens) Title(diag.Diagnostic) string { return "Remove redundant parentheses" }

func (RedundantParens) IncludeInBatch(d diag.Diagnostic) bool {
	return !d.Unnecessary()
}

func isParen(n *syntax.Node) bool { return n.Kind == syntax.KindParen }

func (RedundantParens) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	tree := ed.Tree()
	ids, err := targets(tree, ds, isParen)
	if err != nil {
		return err
	}
	want := make(map[syntax.NodeID]bool, len(ids))
	for _, id := range ids {
		if !droppable(tree.Node(id)) {
			continue
		}
		want[id] = true
	}

	// группы вложенных скобок разбираем целиком: если ядру нужна одна пара,
	// а вне цели скобок не осталось, внешнюю цель не трогаем
	done := make(map[syntax.NodeID]bool)
	for _, id := range ids {
		if !want[id] || done[id] {
			continue
		}
		top := id
		for p := tree.Parent(top); p != syntax.NoNodeID && isParen(tree.Node(p)); p = tree.Parent(p) {
			top = p
		}
		var chain []syntax.NodeID
		kept := 0
		cur := top
		for isParen(tree.Node(cur)) {
			chain = append(chain, cur)
			if !want[cur] {
				kept++
			}
			cur = tree.Children(cur)[1]
		}
		core := tree.Node(cur)
		parent := tree.Parent(top)
		needOne := parser.NeedsParens(core, tree.Node(parent), tree.IndexInParent(top))
		for _, c := range chain {
			done[c] = true
			if !want[c] {
				continue
			}
			if needOne && kept == 0 {
				kept++
				continue
			}
			if err := ed.ReplaceNodeWith(c, unwrap); err != nil {
				return err
			}
		}
	}
	return nil
}

// droppable: removing the group must not lose a comment.
func droppable(n *syntax.Node) bool {
	inner, closing := n.Inner(), n.Child(2)
	if inner == nil || closing == nil || closing.IsMissing() {
		return false
	}
	return !leadingComment(inner) && !leadingComment(closing)
}

func unwrap(cur *syntax.Node) *syntax.Node {
	if cur.Kind != syntax.KindParen {
		return cur
	}
	return hoist(cur.Inner(), cur)
}
