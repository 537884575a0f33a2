package fix

import (
	"context"
	"fmt"
	"slices"

	"mend/internal/diag"
	"mend/internal/workspace"
)

// Action is one fix offered for one diagnostic.
type Action struct {
	Title          string
	EquivalenceKey string
	Applicability  Applicability
	Diagnostic     diag.Diagnostic
	Provider       Provider
}

// Apply runs the action against doc.
func (a Action) Apply(ctx context.Context, doc *workspace.Document) (*workspace.Document, error) {
	return NewFixer(a.Provider).Fix(ctx, doc, a.Diagnostic)
}

// Registry maps diagnostic codes to providers. Several providers may fix the
// same code; registration order is kept.
type Registry struct {
	providers []Provider
	byCode    map[diag.Code][]Provider
}

func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{byCode: make(map[diag.Code][]Provider)}
	for _, p := range providers {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p. Names must be unique.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("fix: register: nil provider")
	}
	for _, q := range r.providers {
		if q.Name() == p.Name() {
			return fmt.Errorf("fix: register: duplicate provider %q", p.Name())
		}
	}
	r.providers = append(r.providers, p)
	for _, code := range p.FixableCodes() {
		r.byCode[code] = append(r.byCode[code], p)
	}
	return nil
}

func (r *Registry) Providers() []Provider { return slices.Clone(r.providers) }

func (r *Registry) Provider(name string) (Provider, bool) {
	for _, p := range r.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// ProvidersFor lists providers that can fix code.
func (r *Registry) ProvidersFor(code diag.Code) []Provider {
	return r.byCode[code]
}

// Actions lists the fixes offered for d in doc. Diagnostics of another file
// get none.
func (r *Registry) Actions(doc *workspace.Document, d diag.Diagnostic) []Action {
	if d.Primary.File != doc.FileID() {
		return nil
	}
	ps := r.byCode[d.Code]
	out := make([]Action, 0, len(ps))
	for _, p := range ps {
		out = append(out, Action{
			Title:          p.Title(d),
			EquivalenceKey: EquivalenceKeyOf(p, d),
			Applicability:  ApplicabilityOf(p, d),
			Diagnostic:     d,
			Provider:       p,
		})
	}
	return out
}
