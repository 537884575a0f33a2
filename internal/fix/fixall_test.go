package fix_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"mend/internal/diag"
	"mend/internal/fix"
	"mend/internal/token"
	"mend/internal/workspace"
)

func TestBatchFixerScopes(t *testing.T) {
	files := []string{
		"a.mnd", "a + b;\n",
		"b.mnd", "c * d;\n",
		"c.mnd", "e + f + g;\n",
	}
	tests := []struct {
		name  string
		scope fix.Scope
		want  map[workspace.DocumentID]string
	}{
		{"document", fix.ScopeDocument, map[workspace.DocumentID]string{
			"a.mnd": "a - b;\n", "b.mnd": "c * d;\n", "c.mnd": "e + f + g;\n",
		}},
		{"project", fix.ScopeProject, map[workspace.DocumentID]string{
			"a.mnd": "a - b;\n", "b.mnd": "c * d;\n", "c.mnd": "e - f - g;\n",
		}},
		{"solution", fix.ScopeSolution, map[workspace.DocumentID]string{
			"a.mnd": "a - b;\n", "b.mnd": "c * d;\n", "c.mnd": "e - f - g;\n",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, docs := multiDoc(t, files...)
			before := texts(sol)
			var b fix.BatchFixer
			out, err := b.FixAll(context.Background(), fix.FixAllContext{
				Scope:    tt.scope,
				Document: docs[0],
				Solution: sol,
				Provider: plusToMinus(),
				Source:   opSource{code: diag.LintIdentityArith, op: token.Plus},
				Jobs:     2,
			})
			if err != nil {
				t.Fatal(err)
			}
			got := texts(out)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("%s = %q, want %q", id, got[id], want)
				}
			}
			for id, want := range before {
				if texts(sol)[id] != want {
					t.Errorf("input solution changed at %s", id)
				}
			}
		})
	}
}

func TestBatchFixerSkipsFilteredAndForeignCodes(t *testing.T) {
	sol, docs := multiDoc(t, "a.mnd", "a + b + c;\n")
	p := filteringSwap{plusToMinus()}
	var b fix.BatchFixer
	out, err := b.FixAll(context.Background(), fix.FixAllContext{
		Scope:    fix.ScopeDocument,
		Document: docs[0],
		Solution: sol,
		Provider: p,
		Source:   opSource{code: diag.LintIdentityArith, op: token.Plus, twins: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := texts(out)["a.mnd"]; got != "a - b - c;\n" {
		t.Fatalf("text = %q", got)
	}
	if got := p.batches(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("batches = %v, want one batch of the two primaries", got)
	}

	// код, который провайдер не чинит, документ не трогает
	q := plusToMinus()
	out, err = b.FixAll(context.Background(), fix.FixAllContext{
		Scope:    fix.ScopeSolution,
		Solution: sol,
		Provider: q,
		Source:   opSource{code: diag.LintBoolCompare, op: token.Plus},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.calls != 0 || out.Documents()[0] != docs[0] {
		t.Fatal("documents without fixable diagnostics must be left as is")
	}
}

func TestBatchFixerEquivalenceKey(t *testing.T) {
	sol, docs := multiDoc(t, "a.mnd", "a + b;\n")
	var b fix.BatchFixer
	out, err := b.FixAll(context.Background(), fix.FixAllContext{
		Scope:          fix.ScopeDocument,
		Document:       docs[0],
		Solution:       sol,
		Provider:       plusToMinus(),
		Source:         opSource{code: diag.LintIdentityArith, op: token.Plus},
		EquivalenceKey: "something-else",
	})
	if err != nil {
		t.Fatal(err)
	}
	if texts(out)["a.mnd"] != "a + b;\n" {
		t.Fatal("mismatched equivalence key must not fix anything")
	}
}

func TestBatchFixerAllOrNothing(t *testing.T) {
	sol, _ := multiDoc(t,
		"a.mnd", "a + b;\n",
		"b.mnd", "c + d + e;\n",
	)
	p := plusToMinus()
	p.failOn = 2 // only b.mnd has two diagnostics
	var b fix.BatchFixer
	out, err := b.FixAll(context.Background(), fix.FixAllContext{
		Scope:    fix.ScopeSolution,
		Solution: sol,
		Provider: p,
		Source:   opSource{code: diag.LintIdentityArith, op: token.Plus},
	})
	if out != nil {
		t.Fatal("got a solution from a failed run")
	}
	var pe *fix.PopulateError
	if !errors.As(err, &pe) || !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
}

func TestBatchFixerCancelled(t *testing.T) {
	sol, _ := multiDoc(t, "a.mnd", "a + b;\n", "b.mnd", "c + d;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var b fix.BatchFixer
	out, err := b.FixAll(ctx, fix.FixAllContext{
		Scope:    fix.ScopeSolution,
		Solution: sol,
		Provider: plusToMinus(),
		Source:   opSource{code: diag.LintIdentityArith, op: token.Plus},
	})
	if out != nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("out=%v err=%v", out, err)
	}
}

func TestBatchFixerProgress(t *testing.T) {
	sol, _ := multiDoc(t, "a.mnd", "a + b;\n", "b.mnd", "c;\n", "c.mnd", "d + e;\n")
	var mu sync.Mutex
	var seen []int
	b := fix.BatchFixer{Progress: func(done, total int, _ workspace.DocumentID) {
		mu.Lock()
		defer mu.Unlock()
		if total != 3 {
			t.Errorf("total = %d", total)
		}
		seen = append(seen, done)
	}}
	if _, err := b.FixAll(context.Background(), fix.FixAllContext{
		Scope:    fix.ScopeSolution,
		Solution: sol,
		Provider: plusToMinus(),
		Source:   opSource{code: diag.LintIdentityArith, op: token.Plus},
	}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[2] != 3 {
		t.Fatalf("progress = %v", seen)
	}
}

func TestBatchFixerRequiresInputs(t *testing.T) {
	sol, _ := multiDoc(t, "a.mnd", "a;\n")
	var b fix.BatchFixer
	tests := []struct {
		name string
		fac  fix.FixAllContext
	}{
		{"no solution", fix.FixAllContext{Provider: plusToMinus(), Source: opSource{}}},
		{"no provider", fix.FixAllContext{Solution: sol, Source: opSource{}}},
		{"no source", fix.FixAllContext{Solution: sol, Provider: plusToMinus()}},
		{"document scope without document", fix.FixAllContext{Solution: sol, Provider: plusToMinus(), Source: opSource{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.FixAll(context.Background(), tt.fac); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestBatchFixerDeclinedLeavesSolutionUnchanged(t *testing.T) {
	sol, docs := multiDoc(t, "a.mnd", "a + b;\n", "b.mnd", "c + d;\n")
	p := plusToMinus()
	p.decline = true
	var b fix.BatchFixer
	out, err := b.FixAll(context.Background(), fix.FixAllContext{
		Scope:    fix.ScopeSolution,
		Document: docs[0],
		Solution: sol,
		Provider: p,
		Source:   opSource{code: diag.LintIdentityArith, op: token.Plus},
	})
	if err != nil {
		t.Fatal(err)
	}
	if changed := out.ChangedDocuments(sol); len(changed) != 0 {
		t.Fatalf("changed = %v", changed)
	}
	for _, d := range docs {
		got, _ := out.Document(d.ID())
		if got != d {
			t.Errorf("%s: document replaced without a text change", d.ID())
		}
	}
	if got := p.batches(); len(got) != 2 {
		t.Fatalf("provider batches = %v", got)
	}
}
