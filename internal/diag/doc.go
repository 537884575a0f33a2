// Package diag defines the diagnostic model shared by the lexer, the parser,
// the lint analyzers and the fix machinery.
//
// # Data model
//
// Diagnostic is an immutable record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Tags – presentation flags such as TagUnnecessary.
//   - Properties – analyzer metadata consumed by fix providers.
//
// Several diagnostics may describe a single defect. Analyzers emit one primary
// diagnostic and, where useful, extra diagnostics tagged TagUnnecessary that
// only mark faded ranges (for example the parentheses of a redundant group).
// Fix providers decide whether such secondary diagnostics take part in a
// batch; see internal/fix.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage. The parser
// constructs a ReportBuilder via NewReportBuilder (or ReportError /
// ReportWarning / ReportInfo) and chains WithNote / WithTag / WithProperty
// before calling Emit. BagReporter aggregates diagnostics into a Bag, which
// supports sorting, deduplication and filtering.
//
// Values handed out by this package are never mutated in place: the With*
// helpers copy slices and maps before extending them.
package diag
