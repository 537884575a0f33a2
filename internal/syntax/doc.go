// Package syntax holds the lossless concrete syntax tree of a .mnd file.
//
// A Node is an immutable value: Kind, an optional leaf Token and Children.
// Leaves keep their leading trivia, so concatenating the full text of every
// leaf in pre-order gives back the exact source text. Edits never touch a
// Node in place; they build new nodes that share unchanged subtrees.
//
// A Tree binds a root to a file and indexes every node by NodeID (pre-order,
// 1-based). Spans are computed from token text when the tree is built, so a
// freshly synthesised root gets correct spans without re-lexing.
package syntax
