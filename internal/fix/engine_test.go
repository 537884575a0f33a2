package fix_test

import (
	"context"
	"errors"
	"testing"

	"mend/internal/diag"
	"mend/internal/fix"
	"mend/internal/source"
	"mend/internal/token"
	"mend/internal/workspace"
)

func starToSlash(app fix.Applicability) *opSwap {
	return &opSwap{name: "star-to-slash", code: diag.LintSelfCompare, from: token.Star, to: token.Slash, app: app}
}

func registry(t *testing.T, ps ...fix.Provider) *fix.Registry {
	t.Helper()
	reg, err := fix.NewRegistry(ps...)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestApplyModes(t *testing.T) {
	sol, doc := workspace.FromText("a.mnd", "a + b * c;\n")
	plus := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	star := opDiag(t, doc, diag.LintSelfCompare, "*", 0)
	unrelated := diag.NewWarning(diag.LintBoolCompare, plus.Primary, "no provider")

	tests := []struct {
		name        string
		opts        fix.ApplyOptions
		wantText    string
		wantApplied []diag.Code
		wantSkipped []string
		wantErr     error
	}{
		{
			name:        "all skips heuristic fixes",
			opts:        fix.ApplyOptions{Mode: fix.ApplyModeAll},
			wantText:    "a - b * c;\n",
			wantApplied: []diag.Code{diag.LintIdentityArith},
			wantSkipped: []string{"applicability is safe-with-heuristics"},
		},
		{
			name:        "once takes the first safe fix",
			opts:        fix.ApplyOptions{Mode: fix.ApplyModeOnce},
			wantText:    "a - b * c;\n",
			wantApplied: []diag.Code{diag.LintIdentityArith},
		},
		{
			name:        "id selects any applicability",
			opts:        fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: fix.FixID(doc, star)},
			wantText:    "a + b / c;\n",
			wantApplied: []diag.Code{diag.LintSelfCompare},
		},
		{
			name:        "unknown id",
			opts:        fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: "LNT9999-a.mnd-0-1"},
			wantSkipped: []string{"fix id not found"},
			wantErr:     fix.ErrNoFixes,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Registry = registry(t, plusToMinus(), starToSlash(fix.SafeWithHeuristics))
			res, err := fix.Apply(context.Background(), sol, []diag.Diagnostic{star, plus, unrelated}, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var codes []diag.Code
			for _, a := range res.Applied {
				codes = append(codes, a.Code)
			}
			if len(codes) != len(tt.wantApplied) || (len(codes) > 0 && codes[0] != tt.wantApplied[0]) {
				t.Fatalf("applied %v, want %v", codes, tt.wantApplied)
			}
			var reasons []string
			for _, s := range res.Skipped {
				reasons = append(reasons, s.Reason)
			}
			if len(reasons) != len(tt.wantSkipped) || (len(reasons) > 0 && reasons[0] != tt.wantSkipped[0]) {
				t.Fatalf("skipped %v, want %v", reasons, tt.wantSkipped)
			}
			if tt.wantErr != nil {
				if res.Solution != nil {
					t.Fatal("solution returned with an error")
				}
				return
			}
			out, _ := res.Solution.Document(doc.ID())
			if out.Text() != tt.wantText {
				t.Fatalf("text = %q, want %q", out.Text(), tt.wantText)
			}
			if doc.Text() != "a + b * c;\n" {
				t.Fatal("input document changed")
			}
			if len(res.Changes) != 1 || res.Changes[0].Before != doc || res.Changes[0].After != out {
				t.Fatalf("changes = %+v", res.Changes)
			}
		})
	}
}

func TestApplyChainsProvidersOnOneDocument(t *testing.T) {
	sol, doc := workspace.FromText("a.mnd", "a + b * c + d;\n")
	plusToOr := &opSwap{name: "plus-to-or", code: diag.LintIdentityArith, from: token.Plus, to: token.OrOr}
	ds := []diag.Diagnostic{
		opDiag(t, doc, diag.LintIdentityArith, "+", 0),
		opDiag(t, doc, diag.LintSelfCompare, "*", 0),
		opDiag(t, doc, diag.LintIdentityArith, "+", 1),
	}
	res, err := fix.Apply(context.Background(), sol, ds, fix.ApplyOptions{
		Mode:     fix.ApplyModeAll,
		Registry: registry(t, plusToOr, starToSlash(fix.AlwaysSafe)),
	})
	if err != nil {
		t.Fatal(err)
	}
	out, _ := res.Solution.Document(doc.ID())
	if got, want := out.Text(), "a || b / c || d;\n"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if len(res.Applied) != 3 || res.Changes[0].Fixes != 3 {
		t.Fatalf("applied %d, change %+v", len(res.Applied), res.Changes[0])
	}
	// плюсы одним батчем, звёздочка вторым
	if got := plusToOr.batches(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("plus batches = %v", got)
	}
}

func TestApplySkipsCoveredAndDuplicates(t *testing.T) {
	sol, doc := workspace.FromText("a.mnd", "a + b;\n")
	d := opDiag(t, doc, diag.LintIdentityArith, "+", 0)
	faded := d.WithTag(diag.TagUnnecessary)
	faded.Primary.Start, faded.Primary.End = 0, 1 // на "a", свой id

	res, err := fix.Apply(context.Background(), sol, []diag.Diagnostic{d, d, faded}, fix.ApplyOptions{
		Mode:     fix.ApplyModeAll,
		Registry: registry(t, filteringSwap{plusToMinus()}),
	})
	if err != nil {
		t.Fatal(err)
	}
	reasons := map[string]bool{}
	for _, s := range res.Skipped {
		reasons[s.Reason] = true
	}
	if !reasons["duplicate fix id"] || !reasons["covered by primary diagnostic"] {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %+v", res.Applied)
	}
}

func TestApplyFailureReturnsNoSolution(t *testing.T) {
	sol, doc := workspace.FromText("a.mnd", "a + b;\n")
	p := plusToMinus()
	p.failOn = 1
	res, err := fix.Apply(context.Background(), sol, []diag.Diagnostic{opDiag(t, doc, diag.LintIdentityArith, "+", 0)}, fix.ApplyOptions{
		Mode:     fix.ApplyModeAll,
		Registry: registry(t, p),
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	if res.Solution != nil || len(res.Applied) != 0 || len(res.Changes) != 0 {
		t.Fatalf("partial result leaked: %+v", res)
	}
}

func TestApplyForeignDiagnostic(t *testing.T) {
	sol, _ := workspace.FromText("a.mnd", "a + b;\n")
	d := diag.NewWarning(diag.LintIdentityArith, source.Span{File: 42, Start: 0, End: 1}, "elsewhere")
	res, err := fix.Apply(context.Background(), sol, []diag.Diagnostic{d}, fix.ApplyOptions{
		Mode:     fix.ApplyModeAll,
		Registry: registry(t, plusToMinus()),
	})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "diagnostic is not in a loaded document" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
}

func TestApplyNeedsRegistry(t *testing.T) {
	sol, _ := workspace.FromText("a.mnd", "a;\n")
	if _, err := fix.Apply(context.Background(), sol, nil, fix.ApplyOptions{}); !errors.Is(err, fix.ErrNoProvider) {
		t.Fatalf("err = %v", err)
	}
}

func TestApplyDeclinedFixIsNotApplied(t *testing.T) {
	sol, doc := workspace.FromText("a.mnd", "a + b;\n")
	p := plusToMinus()
	p.decline = true
	res, err := fix.Apply(context.Background(), sol, []diag.Diagnostic{opDiag(t, doc, diag.LintIdentityArith, "+", 0)}, fix.ApplyOptions{
		Mode:     fix.ApplyModeAll,
		Registry: registry(t, p),
	})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if res.Solution != nil || len(res.Applied) != 0 || len(res.Changes) != 0 {
		t.Fatalf("declined fix reported as applied: %+v", res)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "provider made no edit" {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	if got := p.batches(); len(got) != 1 {
		t.Fatalf("provider batches = %v", got)
	}
}

func TestApplyDeclinedBatchKeepsOtherProviders(t *testing.T) {
	sol, doc := workspace.FromText("a.mnd", "a + b * c;\n")
	declined := plusToMinus()
	declined.decline = true
	ds := []diag.Diagnostic{
		opDiag(t, doc, diag.LintIdentityArith, "+", 0),
		opDiag(t, doc, diag.LintSelfCompare, "*", 0),
	}
	res, err := fix.Apply(context.Background(), sol, ds, fix.ApplyOptions{
		Mode:     fix.ApplyModeAll,
		Registry: registry(t, declined, starToSlash(fix.AlwaysSafe)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Provider != "star-to-slash" {
		t.Fatalf("applied = %+v", res.Applied)
	}
	if len(res.Changes) != 1 || res.Changes[0].Fixes != 1 {
		t.Fatalf("changes = %+v", res.Changes)
	}
	if changed := res.Solution.ChangedDocuments(sol); len(changed) != 1 || changed[0].Text() != "a + b / c;\n" {
		t.Fatalf("changed = %v", changed)
	}
}
