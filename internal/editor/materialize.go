package editor

import (
	"context"
	"fmt"

	"mend/internal/syntax"
)

// checkEvery — как часто проверять ctx при обходе
const checkEvery = 256

type builder struct {
	ctx   context.Context
	e     *Editor
	dirty map[syntax.NodeID]bool
	seen  int
}

// ChangedRoot materialises every registered change against the baseline
// root. The session is closed afterwards, even on error. With no changes the
// baseline root itself is returned.
func (e *Editor) ChangedRoot(ctx context.Context) (*syntax.Node, error) {
	if e.closed {
		return nil, ErrSessionClosed
	}
	e.closed = true
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("editor: materialise: %w", err)
	}
	root := e.tree.RootID()
	if len(e.pending) == 0 || root == syntax.NoNodeID {
		return e.tree.Root, nil
	}

	b := &builder{ctx: ctx, e: e, dirty: make(map[syntax.NodeID]bool, len(e.pending)*4)}
	for id := range e.pending {
		for p := id; p != syntax.NoNodeID && !b.dirty[p]; p = e.tree.Parent(p) {
			b.dirty[p] = true
		}
	}

	out, err := b.rebuild(root)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 || out[0].Kind != e.tree.Root.Kind {
		return nil, ErrRootReplacement
	}
	return out[0], nil
}

// rebuild возвращает узлы, которые займут место id в родителе:
// before..., сам узел (если не удалён), after...
func (b *builder) rebuild(id syntax.NodeID) ([]*syntax.Node, error) {
	b.seen++
	if b.seen%checkEvery == 0 {
		if err := b.ctx.Err(); err != nil {
			return nil, fmt.Errorf("editor: materialise: %w", err)
		}
	}

	orig := b.e.tree.Node(id)
	if !b.dirty[id] {
		return []*syntax.Node{orig}, nil
	}

	cur := orig
	kids := b.e.tree.Children(id)
	if len(kids) > 0 {
		children := make([]*syntax.Node, 0, len(kids))
		changed := false
		for i, k := range kids {
			rebuilt, err := b.rebuild(k)
			if err != nil {
				return nil, err
			}
			if len(rebuilt) != 1 || rebuilt[0] != orig.Children[i] {
				changed = true
			}
			children = append(children, rebuilt...)
		}
		if changed {
			cur = orig.WithChildren(children)
		}
	}

	p := b.e.pending[id]
	if p == nil {
		return []*syntax.Node{cur}, nil
	}
	out := make([]*syntax.Node, 0, len(p.before)+1+len(p.after))
	out = append(out, p.before...)
	if !p.removed {
		for _, fn := range p.replace {
			cur = fn(cur)
			if cur == nil {
				return nil, fmt.Errorf("%w: #%d", ErrNilReplacement, id)
			}
		}
		out = append(out, cur)
	}
	out = append(out, p.after...)
	return out, nil
}
