package fix

import (
	"context"
	"fmt"
	"strconv"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/trace"
	"mend/internal/workspace"
)

// Fixer runs one provider against one document.
type Fixer struct {
	provider Provider
}

func NewFixer(p Provider) *Fixer {
	return &Fixer{provider: p}
}

func (f *Fixer) Provider() Provider { return f.provider }

// Fix applies the fix for a single diagnostic. It is FixAll with a batch of
// one; errors come back unchanged.
func (f *Fixer) Fix(ctx context.Context, doc *workspace.Document, d diag.Diagnostic) (*workspace.Document, error) {
	return f.FixAll(ctx, doc, []diag.Diagnostic{d})
}

// FixAll applies the fixes for every diagnostic in one edit session and
// returns the new document version. Duplicates are handed to the provider as
// they are. On error, including cancellation, no document is returned and
// doc stays valid.
func (f *Fixer) FixAll(ctx context.Context, doc *workspace.Document, diagnostics []diag.Diagnostic) (*workspace.Document, error) {
	if f.provider == nil {
		return nil, fmt.Errorf("fix: %s: %w", doc.ID(), ErrNoProvider)
	}
	name := f.provider.Name()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fix: %s: %w", name, err)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDocument, "fix:"+name)
	span.WithExtra("doc", string(doc.ID())).WithExtra("diagnostics", strconv.Itoa(len(diagnostics)))
	detail := "cancelled"
	defer func() { span.End(detail) }()

	tree, err := doc.SyntaxTree(ctx)
	if err != nil {
		detail = "no tree"
		return nil, fmt.Errorf("fix: %s: %w", name, err)
	}
	ed := editor.New(tree)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fix: %s: %w", name, err)
	}
	if err := f.provider.RegisterEdits(ctx, doc, diagnostics, ed); err != nil {
		detail = "populate failed"
		return nil, &PopulateError{Provider: name, Count: len(diagnostics), Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fix: %s: %w", name, err)
	}

	root, err := ed.ChangedRoot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fix: %s: %w", name, err)
		}
		detail = "materialise failed"
		return nil, &MaterializeError{Provider: name, Err: err}
	}
	detail = strconv.Itoa(len(ed.Changes())) + " change(s)"
	return doc.WithSyntaxRoot(root), nil
}

// IncludeInBatch reports whether d takes part in a batch. True unless the
// provider implements BatchFilter.
func (f *Fixer) IncludeInBatch(d diag.Diagnostic) bool {
	if bf, ok := f.provider.(BatchFilter); ok {
		return bf.IncludeInBatch(d)
	}
	return true
}
