package diag

import (
	"testing"

	"mend/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestBagLimitAndMerge(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SynUnexpectedToken, sp(0, 1), "a")) || !b.Add(NewError(SynUnexpectedToken, sp(1, 2), "b")) {
		t.Fatalf("expected first two adds to succeed")
	}
	if b.Add(NewError(SynUnexpectedToken, sp(2, 3), "c")) {
		t.Fatalf("expected limit to reject third diagnostic")
	}
	other := NewBag(0)
	other.Add(NewWarning(LintDoubleNegation, sp(5, 6), "w"))
	b.Merge(other)
	if b.Len() != 3 || b.Cap() != 3 {
		t.Fatalf("len=%d cap=%d, want 3/3", b.Len(), b.Cap())
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
}

func TestBagSortPutsPrimaryBeforeUnnecessary(t *testing.T) {
	b := NewBag(0)
	primary := NewWarning(LintRedundantParens, sp(4, 9), "redundant")
	faded := primary.WithTag(TagUnnecessary)
	b.Add(faded)
	b.Add(NewError(SynExpectSemicolon, sp(10, 10), "semi"))
	b.Add(primary)
	b.Add(NewError(LintRedundantParens, sp(0, 1), "first"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "first" {
		t.Fatalf("first item = %q", items[0].Message)
	}
	if items[1].Unnecessary() || !items[2].Unnecessary() {
		t.Fatalf("expected primary before unnecessary, got tags %v, %v", items[1].Tags, items[2].Tags)
	}
	if items[3].Code != SynExpectSemicolon {
		t.Fatalf("last item code = %v", items[3].Code)
	}
}

func TestBagDedupKeepsDistinctTags(t *testing.T) {
	b := NewBag(0)
	d := NewWarning(LintRedundantParens, sp(1, 2), "x")
	b.Add(d)
	b.Add(d)
	b.Add(d.WithTag(TagUnnecessary))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("len after dedup = %d, want 2", b.Len())
	}
}

func TestBagFilterAndTransform(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(LintSelfCompare, sp(0, 3), "a"))
	b.Add(NewWarning(LintBoolCompare, sp(4, 6), "b"))
	b.Filter(func(d Diagnostic) bool { return d.Code != LintSelfCompare })
	b.Transform(func(d Diagnostic) Diagnostic { return d.WithSeverity(SevError) })
	if b.Len() != 1 || b.Items()[0].Severity != SevError {
		t.Fatalf("unexpected bag contents: %+v", b.Items())
	}
}

func TestWithPropertyCopies(t *testing.T) {
	base := NewWarning(LintIdentityArith, sp(0, 1), "x").WithProperty("keep", "left")
	derived := base.WithProperty("keep", "right")
	if base.Property("keep") != "left" || derived.Property("keep") != "right" {
		t.Fatalf("WithProperty mutated the receiver: %q / %q", base.Property("keep"), derived.Property("keep"))
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	ReportWarning(r, LintDoubleNegation, sp(0, 2), "dup").Emit()
	ReportWarning(r, LintDoubleNegation, sp(0, 2), "dup").Emit()
	b := ReportWarning(r, LintDoubleNegation, sp(0, 2), "dup").WithTag(TagUnnecessary)
	b.Emit()
	b.Emit()
	if bag.Len() != 2 {
		t.Fatalf("len = %d, want 2", bag.Len())
	}
}
