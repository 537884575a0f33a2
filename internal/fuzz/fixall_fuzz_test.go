package fuzztests

import (
	"context"
	"errors"
	"testing"

	"mend/internal/codefix"
	"mend/internal/driver"
	"mend/internal/fix"
	"mend/internal/testkit"
	"mend/internal/workspace"
)

// FuzzFixAllKeepsTreeSound runs every provider's fix-all over the input and
// checks that the rewritten tree still matches its registered text.
func FuzzFixAllKeepsTreeSound(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx := context.Background()

		sol, doc := workspace.FromText("fuzz.mnd", string(input))
		src := driver.NewSource(driver.Options{Jobs: 1})
		var bf fix.BatchFixer
		for _, p := range codefix.All() {
			next, err := bf.FixAll(ctx, fix.FixAllContext{
				Scope:    fix.ScopeDocument,
				Document: doc,
				Solution: sol,
				Provider: p,
				Source:   src,
			})
			if errors.Is(err, codefix.ErrNodeNotFound) {
				continue
			}
			if err != nil {
				t.Fatalf("%s: %v\ninput: %q", p.Name(), err, truncateForLog(input, 200))
			}
			fixed, ok := next.Document(doc.ID())
			if !ok {
				t.Fatalf("%s: document vanished", p.Name())
			}
			tree, err := fixed.SyntaxTree(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if err := testkit.CheckSpanInvariants(tree, fixed.File()); err != nil {
				t.Fatalf("%s: %v\ninput: %q", p.Name(), err, truncateForLog(input, 200))
			}
			sol, doc = next, fixed
		}
	})
}
