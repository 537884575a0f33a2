package diag

import (
	"testing"

	"mend/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.mnd", []byte("a\nb\n"), 0)
	outsideFile := fs.Add("/elsewhere/helper.mnd", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: outsideFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     LintRedundantParens,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevWarning,
			Code:     LintRedundantParens,
			Message:  "faded",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
			Tags:     TagUnnecessary,
		},
	}

	expected := "error SYN2001 testdata/golden/sample.mnd:1:1 first line second\n" +
		"note SYN2001 testdata/golden/sample.mnd:2:1 note line\n" +
		"warning LNT3001 testdata/golden/sample.mnd:2:1 another\n" +
		"warning LNT3001 testdata/golden/sample.mnd:2:1 faded (unnecessary)"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortKeepsOutsidePaths(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	id := fs.Add("/elsewhere/x.mnd", []byte("x;\n"), 0)
	got := FormatShortDiagnostics([]Diagnostic{NewError(SynExpectSemicolon, source.Span{File: id, Start: 1, End: 1}, "missing ';'")}, fs, false)
	want := "error SYN2003 /elsewhere/x.mnd:1:2 missing ';'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
