package diagfmt

import (
	"mend/internal/diag"
	"mend/internal/observ"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto|absolute|relative|basename.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// FixHint describes one fix offered for a diagnostic. Before and After are
// whole document texts; when both are set a preview of the changed lines is
// rendered.
type FixHint struct {
	ID            string
	Title         string
	Applicability string
	Before, After string
}

// FixLookup returns the fixes offered for d.
type FixLookup func(d diag.Diagnostic) []FixHint

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color           bool
	Context         int8
	PathMode        PathMode
	Width           uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes       bool
	ShowFixes       bool
	ShowPreview     bool
	ShowUnnecessary bool // бледные диагностики обычно дублируют основную
	Fixes           FixLookup
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
	Fixes            FixLookup
	Timings          *observ.Report
}
