package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mend/internal/source"
	"mend/internal/syntax"
)

// CheckSpanInvariants runs the span invariants of a lossless tree over sf:
// 1) the tree text is the file content, byte for byte
// 2) the root full span covers exactly the content
// 3) children tile their parent's full span in order, without gaps
// 4) every span lies inside its full span
func CheckSpanInvariants(tree *syntax.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if tree.Root == nil {
		return fmt.Errorf("tree has no root")
	}
	if tree.File != sf.ID {
		return fmt.Errorf("tree points to different file id: got=%d want=%d", tree.File, sf.ID)
	}

	// 1) round trip
	if text := tree.Text(); text != string(sf.Content) {
		return fmt.Errorf("tree text differs from content: %d vs %d bytes", len(text), len(sf.Content))
	}

	// 2) root covers content
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	root := tree.FullSpan(tree.RootID())
	if root.Start != 0 || root.End != lenContent {
		return fmt.Errorf("root span %d..%d does not cover content of %d bytes", root.Start, root.End, lenContent)
	}

	// 3) + 4)
	var walkErr error
	tree.Walk(func(id syntax.NodeID, n *syntax.Node) bool {
		if walkErr != nil {
			return false
		}
		full, sp := tree.FullSpan(id), tree.Span(id)
		if full.File != sf.ID || sp.File != sf.ID {
			walkErr = fmt.Errorf("node #%d: span in foreign file", id)
			return false
		}
		if sp.Start < full.Start || sp.End > full.End || sp.Start > sp.End {
			walkErr = fmt.Errorf("node #%d %s: span %d..%d outside full span %d..%d", id, n.Kind, sp.Start, sp.End, full.Start, full.End)
			return false
		}
		children := tree.Children(id)
		if len(children) == 0 {
			return true
		}
		next := full.Start
		for _, c := range children {
			cs := tree.FullSpan(c)
			if cs.Start != next {
				walkErr = fmt.Errorf("node #%d %s: child #%d starts at %d, want %d", id, n.Kind, c, cs.Start, next)
				return false
			}
			next = cs.End
		}
		if next != full.End {
			walkErr = fmt.Errorf("node #%d %s: children end at %d, span ends at %d", id, n.Kind, next, full.End)
			return false
		}
		return true
	})
	return walkErr
}
