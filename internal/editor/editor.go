package editor

import (
	"errors"
	"fmt"
	"slices"

	"mend/internal/syntax"
)

var (
	ErrUnknownNode     = errors.New("editor: node is not part of the baseline tree")
	ErrNotInList       = errors.New("editor: node's parent does not accept insertions or removals")
	ErrSessionClosed   = errors.New("editor: session already materialised")
	ErrNilReplacement  = errors.New("editor: replacement produced a nil node")
	ErrRootReplacement = errors.New("editor: root must stay a file node")
)

type ChangeKind uint8

const (
	ChangeReplace ChangeKind = iota + 1
	ChangeInsertBefore
	ChangeInsertAfter
	ChangeRemove
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeReplace:
		return "replace"
	case ChangeInsertBefore:
		return "insert-before"
	case ChangeInsertAfter:
		return "insert-after"
	case ChangeRemove:
		return "remove"
	}
	return "unknown"
}

// Change is one registered request, in registration order.
type Change struct {
	Kind ChangeKind
	Node syntax.NodeID
}

// pending — накопленные изменения одного узла
type pending struct {
	replace []func(*syntax.Node) *syntax.Node
	before  []*syntax.Node
	after   []*syntax.Node
	removed bool
}

type Editor struct {
	tree    *syntax.Tree
	pending map[syntax.NodeID]*pending
	log     []Change
	closed  bool
}

// New starts a session over tree.
func New(tree *syntax.Tree) *Editor {
	return &Editor{
		tree:    tree,
		pending: make(map[syntax.NodeID]*pending),
	}
}

// Tree returns the baseline tree.
func (e *Editor) Tree() *syntax.Tree {
	return e.tree
}

// Changes lists registered requests in order.
func (e *Editor) Changes() []Change {
	return slices.Clone(e.log)
}

func (e *Editor) at(id syntax.NodeID, kind ChangeKind, list bool) (*pending, error) {
	if e.closed {
		return nil, ErrSessionClosed
	}
	if !e.tree.Has(id) {
		return nil, fmt.Errorf("%w: #%d", ErrUnknownNode, id)
	}
	if list {
		parent := e.tree.Parent(id)
		if parent == syntax.NoNodeID || !e.tree.Node(parent).Kind.IsList() {
			return nil, fmt.Errorf("%w: #%d (%s)", ErrNotInList, id, e.tree.Node(id).Kind)
		}
	}
	p := e.pending[id]
	if p == nil {
		p = &pending{}
		e.pending[id] = p
	}
	e.log = append(e.log, Change{Kind: kind, Node: id})
	return p, nil
}

// ReplaceNode replaces id with n. A later ReplaceNode for the same node
// wins; ReplaceNodeWith callbacks registered afterwards see n.
func (e *Editor) ReplaceNode(id syntax.NodeID, n *syntax.Node) error {
	if n == nil {
		return ErrNilReplacement
	}
	p, err := e.at(id, ChangeReplace, false)
	if err != nil {
		return err
	}
	p.replace = []func(*syntax.Node) *syntax.Node{func(*syntax.Node) *syntax.Node { return n }}
	return nil
}

// ReplaceNodeWith registers fn to compute the replacement from the current
// form of the node, after its descendants and earlier replacements were
// applied.
func (e *Editor) ReplaceNodeWith(id syntax.NodeID, fn func(current *syntax.Node) *syntax.Node) error {
	if fn == nil {
		return ErrNilReplacement
	}
	p, err := e.at(id, ChangeReplace, false)
	if err != nil {
		return err
	}
	p.replace = append(p.replace, fn)
	return nil
}

// InsertBefore places nodes before id in its parent list.
func (e *Editor) InsertBefore(id syntax.NodeID, nodes ...*syntax.Node) error {
	p, err := e.at(id, ChangeInsertBefore, true)
	if err != nil {
		return err
	}
	p.before = append(p.before, nodes...)
	return nil
}

// InsertAfter places nodes after id; repeated calls keep registration order.
func (e *Editor) InsertAfter(id syntax.NodeID, nodes ...*syntax.Node) error {
	p, err := e.at(id, ChangeInsertAfter, true)
	if err != nil {
		return err
	}
	p.after = append(p.after, nodes...)
	return nil
}

// RemoveNode drops id from its parent list.
func (e *Editor) RemoveNode(id syntax.NodeID) error {
	p, err := e.at(id, ChangeRemove, true)
	if err != nil {
		return err
	}
	p.removed = true
	return nil
}
