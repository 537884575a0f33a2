package parser_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/syntax"
)

func parseSource(t *testing.T, input string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mnd", []byte(input))
	bag := diag.NewBag(0)
	res, err := parser.ParseFile(context.Background(), fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return res.Tree, res.Bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// sexpr renders the tree shape without trivia: (Binary a + b)
func sexpr(n *syntax.Node) string {
	if n.Kind.IsLeaf() {
		if n.Token.Missing {
			return "<missing>"
		}
		return n.Token.Text
	}
	parts := make([]string, 0, len(n.Children)+1)
	parts = append(parts, n.Kind.String())
	for _, c := range n.Children {
		parts = append(parts, sexpr(c))
	}
	return "(" + strings.Join(parts, " ") + ")"
}
