package fix

import (
	"testing"

	"mend/internal/source"
	"mend/internal/workspace"
)

func TestRebaserSpans(t *testing.T) {
	_, base := workspace.FromText("a.mnd", "a + b * c;\n")
	cur := base.WithText("a || b * c;\n")
	rb := newRebaser(base, cur)

	tests := []struct {
		name   string
		in     source.Span
		want   source.Span
		wantOK bool
	}{
		{"before edit", source.Span{Start: 0, End: 1}, source.Span{Start: 0, End: 1}, true},
		{"after edit shifts", source.Span{Start: 6, End: 7}, source.Span{Start: 7, End: 8}, true},
		{"edited span conflicts", source.Span{Start: 2, End: 3}, source.Span{}, false},
		{"covering span conflicts", source.Span{Start: 0, End: 5}, source.Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.File = base.FileID()
			got, ok := rb.span(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			tt.want.File = cur.FileID()
			if got != tt.want {
				t.Fatalf("span = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRebaserSameDocument(t *testing.T) {
	_, doc := workspace.FromText("a.mnd", "a;\n")
	sp := source.Span{File: doc.FileID(), Start: 0, End: 1}
	got, ok := newRebaser(doc, doc).span(sp)
	if !ok || got != sp {
		t.Fatalf("span = %v, %v", got, ok)
	}
}

func TestRebaserInsertionBoundaries(t *testing.T) {
	_, base := workspace.FromText("a.mnd", "a\nb;\n")
	cur := base.WithText("a;\nb;\n")
	rb := newRebaser(base, cur)

	tests := []struct {
		name   string
		in     source.Span
		want   source.Span
		wantOK bool
	}{
		{"insertion at end", source.Span{Start: 0, End: 1}, source.Span{Start: 0, End: 1}, true},
		{"insertion at start shifts", source.Span{Start: 1, End: 3}, source.Span{Start: 2, End: 4}, true},
		{"empty span at insertion", source.Span{Start: 1, End: 1}, source.Span{Start: 2, End: 2}, true},
		{"insertion inside conflicts", source.Span{Start: 0, End: 2}, source.Span{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.File = base.FileID()
			got, ok := rb.span(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			tt.want.File = cur.FileID()
			if got != tt.want {
				t.Fatalf("span = %v, want %v", got, tt.want)
			}
		})
	}
}
