package fix

import (
	"context"
	"slices"

	"mend/internal/diag"
	"mend/internal/editor"
	"mend/internal/workspace"
)

// Provider contributes edits for a set of diagnostics into a shared editor.
type Provider interface {
	// Name is a stable identifier, also the default equivalence key.
	Name() string
	FixableCodes() []diag.Code
	// Title is the human label of the fix for d.
	Title(d diag.Diagnostic) string
	// RegisterEdits records the edits for every diagnostic in ed. It must not
	// touch the document itself; ed is discarded if it returns an error.
	RegisterEdits(ctx context.Context, doc *workspace.Document, diagnostics []diag.Diagnostic, ed *editor.Editor) error
}

// BatchFilter is implemented by providers that report one defect through
// several diagnostics and want only one of them in a batch.
type BatchFilter interface {
	IncludeInBatch(d diag.Diagnostic) bool
}

// EquivalenceKeyer groups fixes that may be applied together. Providers
// without it use their Name.
type EquivalenceKeyer interface {
	EquivalenceKey(d diag.Diagnostic) string
}

// Classifier rates how safe the fix for d is. Providers without it are
// AlwaysSafe.
type Classifier interface {
	Applicability(d diag.Diagnostic) Applicability
}

// DiagnosticSource supplies the current diagnostics of a document.
type DiagnosticSource interface {
	DocumentDiagnostics(ctx context.Context, doc *workspace.Document) ([]diag.Diagnostic, error)
}

// Applicability describes how much review a fix needs.
type Applicability uint8

const (
	AlwaysSafe Applicability = iota
	SafeWithHeuristics
	ManualReview
)

func (a Applicability) String() string {
	switch a {
	case AlwaysSafe:
		return "always-safe"
	case SafeWithHeuristics:
		return "safe-with-heuristics"
	case ManualReview:
		return "manual-review"
	default:
		return "unknown"
	}
}

// ApplicabilityOf returns p's rating for d.
func ApplicabilityOf(p Provider, d diag.Diagnostic) Applicability {
	if c, ok := p.(Classifier); ok {
		return c.Applicability(d)
	}
	return AlwaysSafe
}

// EquivalenceKeyOf returns p's equivalence key for d.
func EquivalenceKeyOf(p Provider, d diag.Diagnostic) string {
	if k, ok := p.(EquivalenceKeyer); ok {
		return k.EquivalenceKey(d)
	}
	return p.Name()
}

// CanFix reports whether p lists code among its fixable codes.
func CanFix(p Provider, code diag.Code) bool {
	return slices.Contains(p.FixableCodes(), code)
}
