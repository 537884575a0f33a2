package lexer_test

import (
	"strings"
	"testing"

	"mend/internal/diag"
	"mend/internal/lexer"
	"mend/internal/source"
	"mend/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.mnd", []byte(input))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"let", "let x = 1;", []token.Kind{token.KwLet, token.Ident, token.Assign, token.IntLit, token.Semicolon, token.EOF}},
		{"binary", "a+b", []token.Kind{token.Ident, token.Plus, token.Ident, token.EOF}},
		{"compare", "a == true != b <= c >= d < e > f", []token.Kind{
			token.Ident, token.EqEq, token.KwTrue, token.BangEq, token.Ident, token.LtEq, token.Ident,
			token.GtEq, token.Ident, token.Lt, token.Ident, token.Gt, token.Ident, token.EOF,
		}},
		{"logic", "!!x && y || false", []token.Kind{token.Bang, token.Bang, token.Ident, token.AndAnd, token.Ident, token.OrOr, token.KwFalse, token.EOF}},
		{"call", `f(1, "s")`, []token.Kind{token.Ident, token.LParen, token.IntLit, token.Comma, token.StringLit, token.RParen, token.EOF}},
		{"arith", "a*b/c%d-e", []token.Kind{token.Ident, token.Star, token.Ident, token.Slash, token.Ident, token.Percent, token.Ident, token.Minus, token.Ident, token.EOF}},
		{"unicode ident", "переменная + x", []token.Kind{token.Ident, token.Plus, token.Ident, token.EOF}},
		{"digits with underscores", "1_000", []token.Kind{token.IntLit, token.EOF}},
		{"empty", "", []token.Kind{token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			got := kinds(lx.All())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
		})
	}
}

func TestLexerRoundTripsTrivia(t *testing.T) {
	inputs := []string{
		"let x = 1; // trailing\n",
		"/* head */ a\t+\n\n  b ;",
		"a /* nested /* inner */ still */ + b;\n\n",
		"   \n",
		"x; // no newline at end",
	}
	for _, in := range inputs {
		lx, _ := makeTestLexer(in)
		var sb strings.Builder
		for _, tok := range lx.All() {
			sb.WriteString(tok.FullText())
		}
		if sb.String() != in {
			t.Errorf("round trip mismatch:\nwant %q\n got %q", in, sb.String())
		}
	}
}

func TestLexerTriviaKinds(t *testing.T) {
	lx, _ := makeTestLexer("  // c\n\n/* b */x")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("kind = %v", tok.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment}
	if len(tok.Leading) != len(want) {
		t.Fatalf("leading = %+v", tok.Leading)
	}
	for i, tr := range tok.Leading {
		if tr.Kind != want[i] {
			t.Errorf("trivia %d = %v, want %v", i, tr.Kind, want[i])
		}
	}
}

func TestLexerSpans(t *testing.T) {
	lx, _ := makeTestLexer("ab + c")
	toks := lx.All()
	spans := [][2]uint32{{0, 2}, {3, 4}, {5, 6}, {6, 6}}
	for i, want := range spans {
		sp := toks[i].Span
		if sp.Start != want[0] || sp.End != want[1] {
			t.Errorf("token %d span = %d-%d, want %d-%d", i, sp.Start, sp.End, want[0], want[1])
		}
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Text != n.Text || n.Text != "a" {
		t.Fatalf("peek %q next %q", p.Text, n.Text)
	}
	if lx.Next().Text != "b" {
		t.Fatalf("expected b after a")
	}
}

func TestLexerAfterEOF(t *testing.T) {
	lx, _ := makeTestLexer("x ")
	lx.All()
	tok := lx.Next()
	if tok.Kind != token.EOF || len(tok.Leading) != 0 {
		t.Fatalf("repeated EOF must be empty, got %+v", tok)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unknown char", "a $ b", diag.LexUnknownChar},
		{"unknown unicode", "a → b", diag.LexUnknownChar},
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"newline in string", "\"ab\ncd", diag.LexUnterminatedString},
		{"unterminated comment", "a /* /* */", diag.LexUnterminatedBlockComment},
		{"bad number", "12ab", diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			var sb strings.Builder
			for _, tok := range lx.All() {
				sb.WriteString(tok.FullText())
			}
			if sb.String() != tt.input {
				t.Fatalf("errors must not lose text: %q", sb.String())
			}
			if bag.Len() != 1 || bag.Items()[0].Code != tt.code {
				t.Fatalf("diagnostics = %+v, want one %s", bag.Items(), tt.code.ID())
			}
		})
	}
}
