// Package editor implements a single-use edit session over a syntax tree.
//
// Mutations are keyed by the NodeID of a node in the baseline tree, so any
// number of fixes can be registered against one immutable tree and
// materialised together. ChangedRoot builds the new root bottom-up:
// descendants are rebuilt first and a node's own replacements see the
// rebuilt node. Removal of a node wins over any replacement of it.
//
// An Editor is owned by one call and is not safe for concurrent use.
package editor
