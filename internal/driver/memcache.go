package driver

import (
	"sync"

	"mend/internal/diag"
	"mend/internal/project"
	"mend/internal/source"
)

// MemCache keeps diagnostics per document key for the life of the process.
// A fix loop re-diagnoses the same text many times; only changed documents
// miss.
type MemCache struct {
	mu    sync.RWMutex
	byKey map[project.Digest][]diag.Diagnostic
}

// NewMemCache creates a MemCache with the given capacity hint.
func NewMemCache(capHint int) *MemCache {
	return &MemCache{byKey: make(map[project.Digest][]diag.Diagnostic, capHint)}
}

// Get returns a copy of the cached diagnostics rebound to file.
func (c *MemCache) Get(key project.Digest, file source.FileID) ([]diag.Diagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	ds, ok := c.byKey[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return rebind(ds, file), true
}

// Put stores ds under key.
func (c *MemCache) Put(key project.Digest, ds []diag.Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byKey[key] = ds
	c.mu.Unlock()
}

// Len is the number of cached documents.
func (c *MemCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

// rebind копирует диагностики, перенося все спаны на file: одинаковый текст
// у разных версий документа даёт одинаковые смещения
func rebind(ds []diag.Diagnostic, file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(ds))
	for i, d := range ds {
		d.Primary.File = file
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = file
				notes[j] = n
			}
			d.Notes = notes
		}
		out[i] = d
	}
	return out
}
