package fix_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/fix"
	"mend/internal/source"
	"mend/internal/syntax"
	"mend/internal/token"
	"mend/internal/workspace"
)

// opSwap replaces the operator token under each diagnostic.
type opSwap struct {
	name     string
	code     diag.Code
	from, to token.Kind
	app      fix.Applicability // zero value: AlwaysSafe
	filter   bool              // drop TagUnnecessary from batches
	failOn   int               // fail on the n-th diagnostic (1-based), 0 never
	decline  bool              // register no edits at all
	onEdit   func(ctx context.Context)

	mu    sync.Mutex
	calls int
	seen  []int // batch sizes
}

func (p *opSwap) Name() string              { return p.name }
func (p *opSwap) FixableCodes() []diag.Code { return []diag.Code{p.code} }
func (p *opSwap) Title(diag.Diagnostic) string {
	return fmt.Sprintf("replace %q with %q", p.from.Spelling(), p.to.Spelling())
}

func (p *opSwap) Applicability(diag.Diagnostic) fix.Applicability { return p.app }

func (p *opSwap) RegisterEdits(ctx context.Context, doc *workspace.Document, ds []diag.Diagnostic, ed *editor.Editor) error {
	p.mu.Lock()
	p.calls++
	p.seen = append(p.seen, len(ds))
	p.mu.Unlock()
	if p.decline {
		return nil
	}

	tree := ed.Tree()
	for i, d := range ds {
		if p.failOn == i+1 {
			return errBoom
		}
		id, ok := tree.FindNode(d.Primary)
		if !ok {
			return fmt.Errorf("no node at %s", d.Primary)
		}
		n := tree.Node(id)
		if n.Kind != syntax.KindToken || n.Token.Kind != p.from {
			return fmt.Errorf("node at %s is %s %q", d.Primary, n.Kind, n.Text())
		}
		if err := ed.ReplaceNode(id, syntax.NewOp(p.to).WithLeadingFrom(n)); err != nil {
			return err
		}
		if p.onEdit != nil {
			p.onEdit(ctx)
		}
	}
	return nil
}

func (p *opSwap) batches() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.seen...)
}

// filteringSwap is opSwap plus a batch filter.
type filteringSwap struct{ *opSwap }

func (p filteringSwap) IncludeInBatch(d diag.Diagnostic) bool { return !d.Unnecessary() }

var errBoom = errors.New("boom")

// opSource reports every token of kind op, plus an unnecessary twin when
// twins is set.
type opSource struct {
	code  diag.Code
	op    token.Kind
	twins bool
}

func (s opSource) DocumentDiagnostics(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, error) {
	tree, err := doc.SyntaxTree(ctx)
	if err != nil {
		return nil, err
	}
	var out []diag.Diagnostic
	tree.Walk(func(id syntax.NodeID, n *syntax.Node) bool {
		if n.Kind == syntax.KindToken && n.Token.Kind == s.op {
			d := diag.NewWarning(s.code, tree.Span(id), "operator "+s.op.Spelling())
			out = append(out, d)
			if s.twins {
				out = append(out, d.WithTag(diag.TagUnnecessary))
			}
		}
		return true
	})
	return out, nil
}

// opDiag builds a diagnostic on the n-th (0-based) occurrence of op in doc.
func opDiag(t *testing.T, doc *workspace.Document, code diag.Code, op string, n int) diag.Diagnostic {
	t.Helper()
	text := doc.Text()
	off := -1
	for i := 0; i <= n; i++ {
		next := strings.Index(text[off+1:], op)
		if next < 0 {
			t.Fatalf("occurrence %d of %q not found in %q", n, op, text)
		}
		off += next + 1
	}
	sp := source.Span{File: doc.FileID(), Start: uint32(off), End: uint32(off + len(op))}
	return diag.NewWarning(code, sp, "operator "+op)
}

// multiDoc builds a one-project solution from name/text pairs.
func multiDoc(t *testing.T, files ...string) (*workspace.Solution, []*workspace.Document) {
	t.Helper()
	if len(files)%2 != 0 {
		t.Fatal("multiDoc wants name/text pairs")
	}
	fs := source.NewFileSet()
	info := &workspace.ProjectInfo{Name: "test"}
	var docs []*workspace.Document
	for i := 0; i < len(files); i += 2 {
		id := fs.AddVirtual(files[i], []byte(files[i+1]))
		docs = append(docs, workspace.NewDocument(fs, id, workspace.DocumentID(files[i]), info))
	}
	return workspace.NewSolution(fs, workspace.NewProject(info, docs...)), docs
}

func texts(sol *workspace.Solution) map[workspace.DocumentID]string {
	out := make(map[workspace.DocumentID]string)
	for _, d := range sol.Documents() {
		out[d.ID()] = d.Text()
	}
	return out
}
