package diag

import (
	"testing"

	"permcheck/internal/source"
)

func TestBagAddRespectsCapacity(t *testing.T) {
	b := NewBag(1)
	if !b.Add(NewError(SymDuplicateItem, source.Span{}, "first")) {
		t.Fatal("first Add() = false, want true")
	}
	if b.Add(NewError(SymDuplicateItem, source.Span{}, "second")) {
		t.Fatal("second Add() = true, want false (over capacity)")
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevWarning, UnknownCode, source.Span{}, "just a warning"))
	if b.HasErrors() {
		t.Fatal("HasErrors() = true with only a warning present")
	}
	b.Add(NewError(PredFailed, source.Span{}, "boom"))
	if !b.HasErrors() {
		t.Fatal("HasErrors() = false after adding an error")
	}
}

func TestBagSortOrdersBySpanThenSeverity(t *testing.T) {
	b := NewBag(8)
	b.Add(New(SevWarning, UnknownCode, source.Span{File: 1, Start: 10, End: 12}, "later"))
	b.Add(NewError(PredFailed, source.Span{File: 1, Start: 0, End: 2}, "earlier"))
	b.Sort()
	items := b.Items()
	if items[0].Message != "earlier" || items[1].Message != "later" {
		t.Fatalf("Sort() order = %q, %q; want earlier-by-span first", items[0].Message, items[1].Message)
	}
}

func TestDedupReporterSuppressesRepeats(t *testing.T) {
	inner := NewBag(8)
	dedup := NewDedupReporter(BagReporter{Bag: inner})
	d := NewError(PermissionAlreadyGiven, source.Span{File: 1, Start: 5, End: 6}, "permission already given")
	dedup.Report(d)
	dedup.Report(d)
	if inner.Len() != 1 {
		t.Fatalf("Len() = %d after duplicate reports, want 1", inner.Len())
	}
}
