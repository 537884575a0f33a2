package token

import (
	"testing"

	"mend/internal/source"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{EOF, "EOF"},
		{Ident, "Ident"},
		{Plus, "Plus"},
		{Semicolon, "Semicolon"},
		{Kind(250), "Kind(?)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSpelling(t *testing.T) {
	if Minus.Spelling() != "-" || KwLet.Spelling() != "let" || BangEq.Spelling() != "!=" {
		t.Fatal("unexpected spelling table")
	}
	if Ident.Spelling() != "" {
		t.Fatal("identifiers have no fixed spelling")
	}
}

func TestLookupKeyword(t *testing.T) {
	if k, ok := LookupKeyword("let"); !ok || k != KwLet {
		t.Errorf("LookupKeyword(let) = %v, %v", k, ok)
	}
	if _, ok := LookupKeyword("lettuce"); ok {
		t.Error("lettuce is not a keyword")
	}
}

func TestFullText(t *testing.T) {
	tok := Token{
		Kind: Ident,
		Text: "x",
		Leading: []Trivia{
			{Kind: TriviaLineComment, Text: "// note", Span: source.Span{Start: 0, End: 7}},
			{Kind: TriviaNewline, Text: "\n"},
			{Kind: TriviaSpace, Text: "  "},
		},
	}
	if got := tok.FullText(); got != "// note\n  x" {
		t.Fatalf("FullText() = %q", got)
	}
	if !tok.Leading[0].IsComment() || tok.Leading[1].IsComment() {
		t.Fatal("IsComment misclassified trivia")
	}
}
