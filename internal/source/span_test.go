package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{"shift normal span left by 5", Span{File: 1, Start: 10, End: 20}, 5, Span{File: 1, Start: 5, End: 15}},
		{"shift by 0", Span{File: 1, Start: 10, End: 20}, 0, Span{File: 1, Start: 10, End: 20}},
		{"shift equals start", Span{File: 1, Start: 10, End: 20}, 10, Span{File: 1, Start: 0, End: 10}},
		{"shift larger than start returns original", Span{File: 1, Start: 10, End: 20}, 15, Span{File: 1, Start: 10, End: 20}},
		{"zero-length span", Span{File: 1, Start: 10, End: 10}, 3, Span{File: 1, Start: 7, End: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.span.ShiftLeft(tt.shift)
			if result != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSpan_Zeroide(t *testing.T) {
	sp := Span{File: 3, Start: 42, End: 43}
	if got := sp.ZeroideToStart(); got != (Span{File: 3, Start: 42, End: 42}) {
		t.Errorf("ZeroideToStart() = %+v", got)
	}
	if got := sp.ZeroideToEnd(); got != (Span{File: 3, Start: 43, End: 43}) {
		t.Errorf("ZeroideToEnd() = %+v", got)
	}
}

func TestSpan_Cover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 8}) {
		t.Errorf("Cover() = %+v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover() across files = %+v, want %+v", got, a)
	}
}

func TestSpan_ContainsAndOverlaps(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 10}
	tests := []struct {
		name     string
		other    Span
		contains bool
		overlaps bool
	}{
		{"inner", Span{File: 1, Start: 2, End: 4}, true, true},
		{"same", outer, true, true},
		{"straddles end", Span{File: 1, Start: 8, End: 12}, false, true},
		{"adjacent", Span{File: 1, Start: 10, End: 12}, false, false},
		{"empty inside", Span{File: 1, Start: 5, End: 5}, true, true},
		{"empty at end", Span{File: 1, Start: 10, End: 10}, true, false},
		{"other file", Span{File: 2, Start: 2, End: 4}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.other); got != tt.contains {
				t.Errorf("Contains() = %v, want %v", got, tt.contains)
			}
			if got := outer.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps() = %v, want %v", got, tt.overlaps)
			}
		})
	}

	empty := Span{File: 1, Start: 3, End: 3}
	if !empty.Overlaps(Span{File: 1, Start: 3, End: 3}) {
		t.Error("two empty spans at one offset overlap")
	}
}
