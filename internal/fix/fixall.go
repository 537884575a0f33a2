package fix

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"mend/internal/diag"
	"mend/internal/trace"
	"mend/internal/workspace"
)

// Scope selects the documents a fix-all run covers.
type Scope uint8

const (
	ScopeDocument Scope = iota
	ScopeProject
	ScopeSolution
)

func (s Scope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopeProject:
		return "project"
	case ScopeSolution:
		return "solution"
	default:
		return "unknown"
	}
}

// FixAllContext describes one fix-all request.
type FixAllContext struct {
	Scope    Scope
	Document *workspace.Document // ScopeDocument; also locates the project
	Project  *workspace.Project  // ScopeProject; derived from Document if nil
	Solution *workspace.Solution // required
	Provider Provider
	Source   DiagnosticSource
	// EquivalenceKey, if set, keeps only diagnostics whose fix has this key.
	EquivalenceKey string
	// Jobs bounds concurrent documents; <= 0 means GOMAXPROCS.
	Jobs int
}

// BatchFixer runs a provider over every document of a scope.
type BatchFixer struct {
	// Progress, if set, is called after each document; calls are serialised.
	Progress func(done, total int, doc workspace.DocumentID)
}

// FixAll returns a solution with every fixed document swapped in; a document
// whose text did not change keeps its original version. Any failure or
// cancellation returns an error and no solution. Versions already derived
// for sibling documents stay registered in the shared FileSet but are not
// reachable from any solution.
func (b *BatchFixer) FixAll(ctx context.Context, fac FixAllContext) (*workspace.Solution, error) {
	if fac.Solution == nil {
		return nil, errors.New("fix: fix-all: no solution")
	}
	if fac.Provider == nil {
		return nil, fmt.Errorf("fix: fix-all: %w", ErrNoProvider)
	}
	if fac.Source == nil {
		return nil, errors.New("fix: fix-all: no diagnostic source")
	}
	docs, err := scopeDocuments(fac)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "fix-all")
	span.WithExtra("scope", fac.Scope.String()).
		WithExtra("provider", fac.Provider.Name()).
		WithExtra("documents", strconv.Itoa(len(docs)))
	detail := "failed"
	defer func() { span.End(detail) }()

	fixer := NewFixer(fac.Provider)
	fixed := make([]*workspace.Document, len(docs))

	var mu sync.Mutex
	done := 0
	report := func(doc *workspace.Document) {
		if b.Progress == nil {
			return
		}
		mu.Lock()
		done++
		b.Progress(done, len(docs), doc.ID())
		mu.Unlock()
	}

	jobs := fac.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, doc := range docs {
		g.Go(func() error {
			defer report(doc)
			ds, err := fac.Source.DocumentDiagnostics(gctx, doc)
			if err != nil {
				return fmt.Errorf("fix: fix-all: %s: %w", doc.ID(), err)
			}
			batch := selectBatch(fixer, fac, ds)
			if len(batch) == 0 {
				return nil
			}
			out, err := fixer.FixAll(gctx, doc, batch)
			if err != nil {
				return err
			}
			if out.Text() != doc.Text() {
				fixed[i] = out
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fix: fix-all: %w", err)
	}

	sol := fac.Solution
	n := 0
	for _, d := range fixed {
		if d != nil {
			sol = sol.WithDocument(d)
			n++
		}
	}
	detail = strconv.Itoa(n) + " document(s) changed"
	return sol, nil
}

// selectBatch keeps the diagnostics fixer should see in a batch.
func selectBatch(fixer *Fixer, fac FixAllContext, ds []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ds {
		if !CanFix(fac.Provider, d.Code) {
			continue
		}
		if fac.EquivalenceKey != "" && EquivalenceKeyOf(fac.Provider, d) != fac.EquivalenceKey {
			continue
		}
		if !fixer.IncludeInBatch(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func scopeDocuments(fac FixAllContext) ([]*workspace.Document, error) {
	switch fac.Scope {
	case ScopeDocument:
		if fac.Document == nil {
			return nil, errors.New("fix: fix-all: document scope without a document")
		}
		return []*workspace.Document{fac.Document}, nil
	case ScopeProject:
		p := fac.Project
		if p == nil && fac.Document != nil {
			p, _ = fac.Solution.ProjectOf(fac.Document)
		}
		if p == nil {
			return nil, errors.New("fix: fix-all: project scope without a project")
		}
		return p.Documents(), nil
	case ScopeSolution:
		return fac.Solution.Documents(), nil
	default:
		return nil, fmt.Errorf("fix: fix-all: unknown scope %d", fac.Scope)
	}
}
