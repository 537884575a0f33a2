package project

import (
	"crypto/sha256"
	"fmt"
	"slices"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит составной хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Digest identifies the effective rule set; diagnostics cached under one
// digest are invalid under another.
func (rs RuleSet) Digest() Digest {
	lines := make([]string, 0, len(rs.Disabled)+len(rs.Severity))
	for c, off := range rs.Disabled {
		if off {
			lines = append(lines, fmt.Sprintf("off %d", c))
		}
	}
	for c, s := range rs.Severity {
		lines = append(lines, fmt.Sprintf("sev %d %d", c, s))
	}
	slices.Sort(lines)
	h := sha256.New()
	for _, l := range lines {
		_, _ = h.Write([]byte(l))
		_, _ = h.Write([]byte{'\n'})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
