package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line:
//
//	#3 Binary 0:3-5
//	  #4 Name 0:3-4 "a"
func Dump(w io.Writer, t *Tree) error {
	var err error
	depth := map[NodeID]int{}
	t.Walk(func(id NodeID, n *Node) bool {
		if err != nil {
			return false
		}
		d := 0
		if p := t.Parent(id); p != NoNodeID {
			d = depth[p] + 1
		}
		depth[id] = d
		line := fmt.Sprintf("%s#%d %s %s", strings.Repeat("  ", d), id, n.Kind, t.Span(id))
		if n.Kind.IsLeaf() {
			switch {
			case n.Token.Missing:
				line += " <missing " + n.Token.Kind.String() + ">"
			default:
				line += " " + strconv.Quote(n.Token.Text)
			}
		}
		_, err = fmt.Fprintln(w, line)
		return true
	})
	return err
}
