package fix

import (
	"fortio.org/safecast"
	"github.com/aymanbagabas/go-udiff"

	"mend/internal/source"
	"mend/internal/workspace"
)

// rebaser moves spans reported against one document version onto a later
// version of the same document.
type rebaser struct {
	edits []udiff.Edit
	file  source.FileID
}

func newRebaser(base, cur *workspace.Document) *rebaser {
	r := &rebaser{file: cur.FileID()}
	if base != cur {
		r.edits = udiff.Strings(base.Text(), cur.Text())
	}
	return r
}

// span returns sp on the later version; false if an edit touched it.
func (r *rebaser) span(sp source.Span) (source.Span, bool) {
	if len(r.edits) == 0 {
		sp.File = r.file
		return sp, true
	}
	for _, e := range r.edits {
		if conflicts(e, int(sp.Start), int(sp.End)) {
			return source.Span{}, false
		}
	}
	start, err := safecast.Conv[uint32](int(sp.Start) + cumulativeDelta(r.edits, int(sp.Start)))
	if err != nil {
		return source.Span{}, false
	}
	// ни одна правка не попала внутрь, длина та же
	return source.Span{File: r.file, Start: start, End: start + sp.Len()}, true
}

// conflicts reports whether edit e overlaps [start, end). Two insertions
// never conflict; an insertion conflicts only with a span it falls strictly
// inside, at either boundary it just moves the span.
func conflicts(e udiff.Edit, start, end int) bool {
	if e.Start == e.End && start == end {
		return false
	}
	if e.Start == e.End {
		return start < e.Start && e.Start < end
	}
	if start == end {
		return e.Start <= start && start < e.End
	}
	return e.Start < end && start < e.End
}

// cumulativeDelta is the length change of all edits ending at or before pos.
func cumulativeDelta(edits []udiff.Edit, pos int) int {
	delta := 0
	for _, e := range edits {
		if e.Start > pos {
			break
		}
		if e.End <= pos {
			delta += len(e.New) - (e.End - e.Start)
		}
	}
	return delta
}
