package fuzztests

import (
	"context"
	"testing"
	"time"

	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.mnd", input))

		bag := diag.NewBag(128)
		res, err := parser.ParseFile(context.Background(), file, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if err := testkit.CheckSpanInvariants(res.Tree, file); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// It uses a timeout to detect infinite loops that could be caused by
// malformed input or edge cases in error recovery.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Add specific edge cases for error recovery
	f.Add([]byte("let x = 1\nlet y = 2"))   // missing semicolons
	f.Add([]byte("x + y\nlet z = 3;"))      // expression without semicolon
	f.Add([]byte("((((((((((a"))            // unclosed groups
	f.Add([]byte("f(,,,);"))                // empty arguments
	f.Add([]byte("let let let = = = ;"))    // keywords everywhere
	f.Add([]byte("!-!-!-!-!-!-!-!-!-!-x;")) // long prefix chains

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		// Create a context with timeout to detect hangs
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		// Run parser in a goroutine
		done := make(chan struct{})
		go func() {
			defer close(done)

			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.mnd", input))
			bag := diag.NewBag(128)
			_, _ = parser.ParseFile(ctx, file, parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		// Wait for completion or timeout
		select {
		case <-done:
			// Parser completed successfully
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
