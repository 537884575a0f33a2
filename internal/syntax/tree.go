package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"mend/internal/source"
)

type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

type entry struct {
	node   *Node
	parent NodeID
	index  int         // позиция в parent.Children
	size   uint32      // узлов в поддереве, включая сам узел
	span   source.Span // без leading trivia
	full   source.Span // с leading trivia
}

// Tree is an indexed, read-only view of a root. It is safe for concurrent use.
type Tree struct {
	File source.FileID
	Root *Node

	nodes *Arena[entry]
	ids   map[*Node]NodeID
}

// NewTree indexes root in pre-order and computes spans from token text.
func NewTree(file source.FileID, root *Node) *Tree {
	t := &Tree{
		File:  file,
		Root:  root,
		nodes: NewArena[entry](64),
		ids:   make(map[*Node]NodeID, 64),
	}
	if root != nil {
		var off uint32
		t.index(root, NoNodeID, 0, &off)
	}
	return t
}

func textLen(s string) uint32 {
	n, err := safecast.Conv[uint32](len(s))
	if err != nil {
		panic(fmt.Errorf("syntax: text too long: %w", err))
	}
	return n
}

func (t *Tree) index(n *Node, parent NodeID, idx int, off *uint32) NodeID {
	id := NodeID(t.nodes.Allocate(entry{node: n, parent: parent, index: idx}))
	if _, seen := t.ids[n]; !seen {
		t.ids[n] = id
	}
	fullStart := *off

	if n.Kind.IsLeaf() {
		for _, tr := range n.Token.Leading {
			*off += textLen(tr.Text)
		}
		start := *off
		*off += textLen(n.Token.Text)
		e := t.nodes.Get(uint32(id))
		e.full = source.Span{File: t.File, Start: fullStart, End: *off}
		e.span = source.Span{File: t.File, Start: start, End: *off}
		e.size = 1
		return id
	}

	first, last := NoNodeID, NoNodeID
	for i, c := range n.Children {
		cid := t.index(c, id, i, off)
		if _, ok := c.FirstToken(); !ok {
			continue
		}
		if first == NoNodeID {
			first = cid
		}
		last = cid
	}

	e := t.nodes.Get(uint32(id))
	e.size = t.nodes.Len() - uint32(id) + 1
	e.full = source.Span{File: t.File, Start: fullStart, End: *off}
	if first == NoNodeID {
		e.span = source.Span{File: t.File, Start: *off, End: *off}
	} else {
		e.span = source.Span{File: t.File, Start: t.nodes.Get(uint32(first)).span.Start, End: t.nodes.Get(uint32(last)).span.End}
	}
	return id
}

// Len returns the number of indexed nodes.
func (t *Tree) Len() int {
	return int(t.nodes.Len())
}

// RootID is always 1 for a non-empty tree.
func (t *Tree) RootID() NodeID {
	if t.Root == nil {
		return NoNodeID
	}
	return 1
}

func (t *Tree) Node(id NodeID) *Node {
	if e := t.nodes.Get(uint32(id)); e != nil {
		return e.node
	}
	return nil
}

// Has reports whether id belongs to this tree.
func (t *Tree) Has(id NodeID) bool {
	return t.nodes.Get(uint32(id)) != nil
}

func (t *Tree) Parent(id NodeID) NodeID {
	if e := t.nodes.Get(uint32(id)); e != nil {
		return e.parent
	}
	return NoNodeID
}

// IndexInParent returns the position of id among its parent's children.
func (t *Tree) IndexInParent(id NodeID) int {
	if e := t.nodes.Get(uint32(id)); e != nil && e.parent != NoNodeID {
		return e.index
	}
	return -1
}

// Span excludes leading trivia; FullSpan includes it.
func (t *Tree) Span(id NodeID) source.Span {
	if e := t.nodes.Get(uint32(id)); e != nil {
		return e.span
	}
	return source.Span{}
}

func (t *Tree) FullSpan(id NodeID) source.Span {
	if e := t.nodes.Get(uint32(id)); e != nil {
		return e.full
	}
	return source.Span{}
}

// ID returns the id of the first occurrence of n.
func (t *Tree) ID(n *Node) (NodeID, bool) {
	id, ok := t.ids[n]
	return id, ok
}

// Children returns the ids of the direct children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(n.Children))
	next := id + 1
	for range n.Children {
		out = append(out, next)
		next += NodeID(t.subtreeSize(next))
	}
	return out
}

func (t *Tree) subtreeSize(id NodeID) int {
	if e := t.nodes.Get(uint32(id)); e != nil {
		return int(e.size)
	}
	return 1
}

// Walk visits nodes in pre-order; returning false skips the subtree.
func (t *Tree) Walk(fn func(id NodeID, n *Node) bool) {
	total := t.nodes.Len()
	for i := uint32(1); i <= total; {
		id := NodeID(i)
		n := t.Node(id)
		if fn(id, n) {
			i++
			continue
		}
		i += uint32(t.subtreeSize(id))
	}
}

// FindNode returns the node whose span equals sp, preferring the innermost
// one on ties, or else the innermost node that contains sp. Spans of another
// file never match.
func (t *Tree) FindNode(sp source.Span) (NodeID, bool) {
	if t.Root == nil || sp.File != t.File {
		return NoNodeID, false
	}
	id := t.RootID()
	if !t.Span(id).Contains(sp) {
		return NoNodeID, false
	}
	best, exact := NoNodeID, NoNodeID
	for id != NoNodeID {
		best = id
		if t.Span(id) == sp {
			exact = id
		}
		id = t.childContaining(id, sp)
	}
	if exact != NoNodeID {
		return exact, true
	}
	return best, true
}

func (t *Tree) childContaining(id NodeID, sp source.Span) NodeID {
	var containing NodeID
	for _, c := range t.Children(id) {
		cs := t.Span(c)
		if cs == sp {
			return c
		}
		if containing == NoNodeID && cs.Contains(sp) && (sp.Empty() || !cs.Empty()) {
			containing = c
		}
	}
	return containing
}

// Ancestors returns the chain of parents of id, nearest first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p != NoNodeID; p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Text renders the whole tree.
func (t *Tree) Text() string {
	return t.Root.Text()
}
