package fuzztests

import (
	"strings"
	"testing"

	"mend/internal/diag"
	"mend/internal/lexer"
	"mend/internal/source"
	"mend/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// FuzzLexerTokens checks that tokens with their leading trivia spell out the
// input again.
func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.mnd", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		reporter := diag.BagReporter{Bag: bag}
		lx := lexer.New(file, lexer.Options{Reporter: reporter})

		var sb strings.Builder
		for {
			tok := lx.Next()
			for _, tr := range tok.Leading {
				sb.WriteString(tr.Text)
			}
			sb.WriteString(tok.Text)
			if tok.Kind == token.EOF {
				break
			}
		}
		if sb.String() != string(input) {
			t.Fatalf("tokens do not round-trip:\n got %q\nwant %q", sb.String(), input)
		}
	})
}
