package fix_test

import (
	"context"
	"errors"
	"testing"

	"mend/internal/diag"
	"mend/internal/fix"
	"mend/internal/token"
	"mend/internal/workspace"
)

func plusToMinus() *opSwap {
	return &opSwap{name: "plus-to-minus", code: diag.LintIdentityArith, from: token.Plus, to: token.Minus}
}

func TestFixSingleAndDuplicateBatch(t *testing.T) {
	tests := []struct {
		name  string
		apply func(f *fix.Fixer, doc *workspace.Document, d diag.Diagnostic) (*workspace.Document, error)
	}{
		{"fix one", func(f *fix.Fixer, doc *workspace.Document, d diag.Diagnostic) (*workspace.Document, error) {
			return f.Fix(context.Background(), doc, d)
		}},
		{"fix all with duplicate", func(f *fix.Fixer, doc *workspace.Document, d diag.Diagnostic) (*workspace.Document, error) {
			return f.FixAll(context.Background(), doc, []diag.Diagnostic{d, d})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, doc := workspace.FromText("a.mnd", "a+b")
			d1 := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
			p := plusToMinus()
			out, err := tt.apply(fix.NewFixer(p), doc, d1)
			if err != nil {
				t.Fatalf("fix: %v", err)
			}
			if got := out.Text(); got != "a-b" {
				t.Fatalf("text = %q, want %q", got, "a-b")
			}
			if doc.Text() != "a+b" {
				t.Fatalf("original document changed: %q", doc.Text())
			}
			if out.ID() != doc.ID() || out.Version() != doc.Version()+1 {
				t.Fatalf("new version id=%s v=%d", out.ID(), out.Version())
			}
			if p.calls != 1 {
				t.Fatalf("provider called %d times, want one session", p.calls)
			}
		})
	}
}

func TestFixAllDuplicatesReachProvider(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a+b")
	d1 := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	p := plusToMinus()
	if _, err := fix.NewFixer(p).FixAll(context.Background(), doc, []diag.Diagnostic{d1, d1}); err != nil {
		t.Fatal(err)
	}
	if got := p.batches(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("batches = %v, want [2]", got)
	}
}

func TestFixAllEmptyIsStable(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "let x = a + b; // keep\n")
	out, err := fix.NewFixer(plusToMinus()).FixAll(context.Background(), doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out == doc {
		t.Fatal("expected a new document")
	}
	if out.Text() != doc.Text() {
		t.Fatalf("text changed: %q -> %q", doc.Text(), out.Text())
	}
}

func TestFixAllDisjointMatchesSequential(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a + b;\nc + d;\n")
	d1 := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	d2 := opDiag(t, doc, diag.LintIdentityArith, "+", 1)
	f := fix.NewFixer(plusToMinus())
	ctx := context.Background()

	batched, err := f.FixAll(ctx, doc, []diag.Diagnostic{d1, d2})
	if err != nil {
		t.Fatal(err)
	}

	step, err := f.Fix(ctx, doc, d1)
	if err != nil {
		t.Fatal(err)
	}
	// замена той же длины, смещения d2 не меняются
	d2.Primary.File = step.FileID()
	step, err = f.Fix(ctx, step, d2)
	if err != nil {
		t.Fatal(err)
	}

	if batched.Text() != step.Text() {
		t.Fatalf("batched %q != sequential %q", batched.Text(), step.Text())
	}
	if batched.Text() != "a - b;\nc - d;\n" {
		t.Fatalf("text = %q", batched.Text())
	}
}

func TestFixAllFailureKeepsDocument(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a + b;\nc + d;\n")
	d1 := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	d2 := opDiag(t, doc, diag.LintIdentityArith, "+", 1)
	p := plusToMinus()
	p.failOn = 2

	out, err := fix.NewFixer(p).FixAll(context.Background(), doc, []diag.Diagnostic{d1, d2})
	if out != nil {
		t.Fatalf("got a document on failure: %q", out.Text())
	}
	var pe *fix.PopulateError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PopulateError", err)
	}
	if pe.Provider != "plus-to-minus" || pe.Count != 2 || !errors.Is(err, errBoom) {
		t.Fatalf("unexpected error %+v", pe)
	}
	if doc.Text() != "a + b;\nc + d;\n" {
		t.Fatalf("document changed: %q", doc.Text())
	}
}

func TestFixAllCancellation(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		_, doc := workspace.FromText("a.mnd", "a+b")
		d1 := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
		p := plusToMinus()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		out, err := fix.NewFixer(p).Fix(ctx, doc, d1)
		if out != nil || !errors.Is(err, context.Canceled) {
			t.Fatalf("out=%v err=%v, want cancellation", out, err)
		}
		if p.calls != 0 {
			t.Fatal("provider must not run after cancellation")
		}
	})
	t.Run("during population", func(t *testing.T) {
		_, doc := workspace.FromText("a.mnd", "a+b")
		d1 := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := plusToMinus()
		p.onEdit = func(context.Context) { cancel() }
		out, err := fix.NewFixer(p).Fix(ctx, doc, d1)
		if out != nil || !errors.Is(err, context.Canceled) {
			t.Fatalf("out=%v err=%v, want cancellation", out, err)
		}
		if doc.Text() != "a+b" {
			t.Fatalf("document changed: %q", doc.Text())
		}
	})
}

func TestIncludeInBatch(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a+b")
	d := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	faded := d.WithTag(diag.TagUnnecessary)

	plain := fix.NewFixer(plusToMinus())
	filtered := fix.NewFixer(filteringSwap{plusToMinus()})

	tests := []struct {
		name string
		f    *fix.Fixer
		d    diag.Diagnostic
		want bool
	}{
		{"default primary", plain, d, true},
		{"default unnecessary", plain, faded, true},
		{"filter primary", filtered, d, true},
		{"filter unnecessary", filtered, faded, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 3 {
				if got := tt.f.IncludeInBatch(tt.d); got != tt.want {
					t.Fatalf("IncludeInBatch = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFixWithoutProvider(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a+b")
	_, err := fix.NewFixer(nil).FixAll(context.Background(), doc, nil)
	if !errors.Is(err, fix.ErrNoProvider) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegistryActions(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a+b")
	d := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	safe := plusToMinus()
	risky := &opSwap{name: "plus-to-star", code: diag.LintIdentityArith, from: token.Plus, to: token.Star, app: fix.ManualReview}
	reg, err := fix.NewRegistry(safe, risky)
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(plusToMinus()); err == nil {
		t.Fatal("duplicate provider name accepted")
	}

	acts := reg.Actions(doc, d)
	if len(acts) != 2 {
		t.Fatalf("got %d actions", len(acts))
	}
	if acts[0].EquivalenceKey != "plus-to-minus" || acts[1].Applicability != fix.ManualReview {
		t.Fatalf("unexpected actions %+v", acts)
	}
	out, err := acts[1].Apply(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if out.Text() != "a*b" {
		t.Fatalf("text = %q", out.Text())
	}

	other := d
	other.Primary.File = doc.FileID() + 1
	if len(reg.Actions(doc, other)) != 0 {
		t.Fatal("actions offered for a diagnostic of another file")
	}
}
