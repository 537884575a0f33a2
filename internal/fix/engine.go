package fix

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aymanbagabas/go-udiff"

	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/trace"
	"mend/internal/workspace"
)

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeOnce:
		return "once"
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	default:
		return "unknown"
	}
}

// ParseApplyMode accepts "once" and "all"; ids go through ApplyOptions.TargetID.
func ParseApplyMode(s string) (ApplyMode, error) {
	switch s {
	case "once":
		return ApplyModeOnce, nil
	case "all", "":
		return ApplyModeAll, nil
	default:
		return ApplyModeAll, fmt.Errorf("invalid fix mode: %q (expected: once|all)", s)
	}
}

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	Registry *Registry
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Provider      string
	Code          diag.Code
	Message       string
	Applicability Applicability
	Document      workspace.DocumentID
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// Change summarises one rewritten document.
type Change struct {
	Document workspace.DocumentID
	Path     string
	Fixes    int // applied fixes
	Hunks    int // changed text regions
	Before   *workspace.Document
	After    *workspace.Document
}

// ApplyResult aggregates applied fixes, skipped ones, and document changes.
// Solution is nil unless fixes were applied.
type ApplyResult struct {
	Applied  []AppliedFix
	Skipped  []SkippedFix
	Changes  []Change
	Solution *workspace.Solution
}

type candidate struct {
	doc      *workspace.Document
	diag     diag.Diagnostic
	provider Provider
	fixer    *Fixer
	app      Applicability
	id       string
	title    string
	order    int
}

// Apply selects fixes for diagnostics according to opts and applies them to
// sol. Per document, fixes are grouped by provider; each group is one
// FixAll batch and groups are chained on the previous result. A failing
// batch fails the whole call and no solution is returned.
func Apply(ctx context.Context, sol *workspace.Solution, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
		Changes: make([]Change, 0),
	}
	if sol == nil {
		return result, errors.New("fix: solution is nil")
	}
	if opts.Registry == nil {
		return result, fmt.Errorf("fix: apply: %w", ErrNoProvider)
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "apply")
	span.WithExtra("mode", opts.Mode.String()).WithExtra("diagnostics", strconv.Itoa(len(diagnostics)))
	defer func() { span.End(strconv.Itoa(len(result.Applied)) + " applied") }()

	candidates, buildSkips := gatherCandidates(sol, opts.Registry, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	out, err := applyCandidates(ctx, sol, selected, result)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	result.Solution = out
	return result, nil
}

// gatherCandidates pairs every diagnostic with the first provider that can
// fix it. Diagnostics nobody fixes are ignored; ones outside sol and
// repeated ids are skipped.
func gatherCandidates(sol *workspace.Solution, reg *Registry, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	byFile := make(map[source.FileID]*workspace.Document)
	for _, doc := range sol.Documents() {
		byFile[doc.FileID()] = doc
	}

	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)
	order := 0
	for _, d := range diagnostics {
		ps := reg.ProvidersFor(d.Code)
		if len(ps) == 0 {
			continue
		}
		p := ps[0]
		doc, ok := byFile[d.Primary.File]
		if !ok {
			skips = append(skips, SkippedFix{
				ID:     fmt.Sprintf("%s-#%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, d.Primary.End),
				Title:  p.Title(d),
				Reason: "diagnostic is not in a loaded document",
			})
			continue
		}
		id := FixID(doc, d)
		if seen[id] {
			skips = append(skips, SkippedFix{ID: id, Title: p.Title(d), Reason: "duplicate fix id"})
			continue
		}
		seen[id] = true
		cands = append(cands, candidate{
			doc:      doc,
			diag:     d,
			provider: p,
			fixer:    NewFixer(p),
			app:      ApplicabilityOf(p, d),
			id:       id,
			title:    p.Title(d),
			order:    order,
		})
		order++
	}
	return cands, skips
}

// FixID is the stable id of the fix for d, as accepted by ApplyModeID.
func FixID(doc *workspace.Document, d diag.Diagnostic) string {
	return fmt.Sprintf("%s-%s-%d-%d", d.Code.ID(), doc.ID(), d.Primary.Start, d.Primary.End)
}

// sortCandidates orders by document path, start, end, insertion order, code
// and id.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if pi, pj := ci.doc.Path(), cj.doc.Path(); pi != pj {
			return pi < pj
		}
		di, dj := ci.diag, cj.diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if ci.order != cj.order {
			return ci.order < cj.order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return ci.id < cj.id
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		// явный id: фильтр батча не применяется, как и для одиночного Fix
		for _, cand := range candidates {
			if cand.id == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if !cand.fixer.IncludeInBatch(cand.diag) {
				skipped = append(skipped, SkippedFix{
					ID:     cand.id,
					Title:  cand.title,
					Reason: "covered by primary diagnostic",
				})
				continue
			}
			if cand.app == AlwaysSafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.id,
				Title:  cand.title,
				Reason: fmt.Sprintf("applicability is %s", cand.app),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		var fallback *candidate
		for i := range candidates {
			cand := candidates[i]
			if !cand.fixer.IncludeInBatch(cand.diag) {
				continue
			}
			if cand.app == AlwaysSafe {
				return []candidate{cand}, nil
			}
			if fallback == nil && cand.app == SafeWithHeuristics {
				fallback = &candidates[i]
			}
		}
		if fallback != nil {
			return []candidate{*fallback}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// batch is one (document, provider) group.
type batch struct {
	provider Provider
	cands    []candidate
}

func applyCandidates(ctx context.Context, sol *workspace.Solution, selected []candidate, result *ApplyResult) (*workspace.Solution, error) {
	// documents in sorted order, providers in order of first appearance
	var docs []*workspace.Document
	groups := make(map[*workspace.Document][]*batch)
	for _, cand := range selected {
		bs, ok := groups[cand.doc]
		if !ok {
			docs = append(docs, cand.doc)
		}
		var b *batch
		for _, x := range bs {
			if x.provider == cand.provider {
				b = x
				break
			}
		}
		if b == nil {
			b = &batch{provider: cand.provider}
			groups[cand.doc] = append(bs, b)
		}
		b.cands = append(b.cands, cand)
	}

	changed := make([]*workspace.Document, 0, len(docs))
	for _, base := range docs {
		cur := base
		applied := 0
		for _, b := range groups[base] {
			rb := newRebaser(base, cur)
			ds := make([]diag.Diagnostic, 0, len(b.cands))
			kept := make([]candidate, 0, len(b.cands))
			for _, cand := range b.cands {
				sp, ok := rb.span(cand.diag.Primary)
				if !ok {
					result.Skipped = append(result.Skipped, SkippedFix{
						ID:     cand.id,
						Title:  cand.title,
						Reason: "conflicts with previously applied fix",
					})
					continue
				}
				ds = append(ds, cand.diag.WithSpan(sp))
				kept = append(kept, cand)
			}
			if len(ds) == 0 {
				continue
			}
			next, err := NewFixer(b.provider).FixAll(ctx, cur, ds)
			if err != nil {
				result.Applied = result.Applied[:0]
				result.Changes = result.Changes[:0]
				return nil, fmt.Errorf("fix: %s: %w", base.ID(), err)
			}
			if next.Text() == cur.Text() {
				for _, cand := range kept {
					result.Skipped = append(result.Skipped, SkippedFix{
						ID:     cand.id,
						Title:  cand.title,
						Reason: "provider made no edit",
					})
				}
				continue
			}
			cur = next
			applied += len(kept)
			for _, cand := range kept {
				result.Applied = append(result.Applied, AppliedFix{
					ID:            cand.id,
					Title:         cand.title,
					Provider:      b.provider.Name(),
					Code:          cand.diag.Code,
					Message:       cand.diag.Message,
					Applicability: cand.app,
					Document:      base.ID(),
				})
			}
		}
		if cur == base {
			continue
		}
		changed = append(changed, cur)
		result.Changes = append(result.Changes, Change{
			Document: base.ID(),
			Path:     base.Path(),
			Fixes:    applied,
			Hunks:    len(udiff.Strings(base.Text(), cur.Text())),
			Before:   base,
			After:    cur,
		})
	}
	return sol.WithDocuments(changed...), nil
}
