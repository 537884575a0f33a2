package diagfmt

import (
	"errors"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

type fixEditPreview struct {
	before []string
	after  []string
}

var errNoChange = errors.New("fix does not change the document")

// buildFixPreview cuts the changed lines out of two versions of a document.
// All edits fall inside one block of whole lines; the block is the same in
// both versions up to the length change.
func buildFixPreview(before, after string) (fixEditPreview, error) {
	edits := udiff.Strings(before, after)
	if len(edits) == 0 {
		return fixEditPreview{}, errNoChange
	}
	first, last := edits[0], edits[len(edits)-1]

	blockStart := lineStartOffset(before, first.Start)
	// правка, заканчивающаяся на '\n', не тянет за собой следующую строку
	tail := last.End
	if last.End > last.Start {
		tail = last.End - 1
	}
	blockEnd := max(lineEndOffsetInclusive(before, tail), blockStart)

	delta := 0
	for _, e := range edits {
		delta += len(e.New) - (e.End - e.Start)
	}
	afterEnd := min(max(blockEnd+delta, blockStart), len(after))

	return fixEditPreview{
		before: splitPreviewLines(before[blockStart:blockEnd]),
		after:  splitPreviewLines(after[blockStart:afterEnd]),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	// хвостовой \n не порождает пустую строку
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func lineStartOffset(text string, off int) int {
	off = min(off, len(text))
	return strings.LastIndexByte(text[:off], '\n') + 1
}

func lineEndOffsetInclusive(text string, off int) int {
	if off >= len(text) {
		return len(text)
	}
	if i := strings.IndexByte(text[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(text)
}
