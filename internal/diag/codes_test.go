package diag

import "testing"

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnknownChar, "LEX1001"},
		{SynExpectSemicolon, "SYN2003"},
		{LintRedundantParens, "LNT3001"},
		{IOLoadFileError, "IO4001"},
		{ProjBadConfig, "PRJ5001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.code.ID(); got != tt.want {
				t.Fatalf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"redundant-parens", LintRedundantParens, true},
		{"LNT3005", LintSelfCompare, true},
		{"lnt3004", LintBoolCompare, true},
		{"missing-semicolon", SynExpectSemicolon, true},
		{"nope", UnknownCode, false},
		{"", UnknownCode, false},
	}
	for _, tt := range tests {
		got, ok := ParseCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCode(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEveryRuleHasName(t *testing.T) {
	for _, c := range Rules() {
		if c.Rule() == "" {
			t.Errorf("%s has no rule name", c.ID())
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if s, err := ParseSeverity("Warn"); err != nil || s != SevWarning {
		t.Fatalf("ParseSeverity(Warn) = %v, %v", s, err)
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}
