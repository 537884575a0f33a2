package codefix

import (
	"errors"
	"fmt"

	"mend/internal/diag"
	"mend/internal/fix"
	"mend/internal/source"
	"mend/internal/syntax"
)

// ErrNodeNotFound is returned when a diagnostic does not point at a node the
// provider can rewrite.
var ErrNodeNotFound = errors.New("no matching syntax node")

// All returns one instance of every provider.
func All() []fix.Provider {
	return []fix.Provider{
		RedundantParens{},
		DoubleNegation{},
		IdentityArith{},
		BoolCompare{},
		SelfCompare{},
		MissingSemicolon{},
	}
}

// NewRegistry registers All.
func NewRegistry() (*fix.Registry, error) {
	return fix.NewRegistry(All()...)
}

// locate finds the node under sp, then walks up to the first ancestor
// accepted by match.
func locate(tree *syntax.Tree, sp source.Span, match func(*syntax.Node) bool) (syntax.NodeID, error) {
	id, ok := tree.FindNode(sp)
	if !ok {
		return syntax.NoNodeID, fmt.Errorf("%w at %s", ErrNodeNotFound, sp)
	}
	for ; id != syntax.NoNodeID; id = tree.Parent(id) {
		if match(tree.Node(id)) {
			return id, nil
		}
	}
	return syntax.NoNodeID, fmt.Errorf("%w at %s", ErrNodeNotFound, sp)
}

// targets resolves every diagnostic once; duplicates collapse to one node.
func targets(tree *syntax.Tree, ds []diag.Diagnostic, match func(*syntax.Node) bool) ([]syntax.NodeID, error) {
	seen := make(map[syntax.NodeID]bool, len(ds))
	out := make([]syntax.NodeID, 0, len(ds))
	for _, d := range ds {
		id, err := locate(tree, d.Primary, match)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// hasComment reports a comment anywhere in the trivia of n.
func hasComment(n *syntax.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind.IsLeaf() {
		for _, tr := range n.Token.Leading {
			if tr.IsComment() {
				return true
			}
		}
		return false
	}
	for _, c := range n.Children {
		if hasComment(c) {
			return true
		}
	}
	return false
}

// leadingComment reports a comment in the leading trivia of n's first token.
func leadingComment(n *syntax.Node) bool {
	for _, tr := range n.Leading() {
		if tr.IsComment() {
			return true
		}
	}
	return false
}

// hoist returns keep carrying the leading trivia of the node it replaces.
func hoist(keep, replaced *syntax.Node) *syntax.Node {
	return keep.WithLeading(replaced.Leading())
}
