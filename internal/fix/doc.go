// Package fix applies code fixes to syntax trees.
//
// Every fix, single or batched, goes through Fixer.FixAll: the document's
// tree is loaded once, one editor.Editor is created, the provider registers
// all of its edits into that editor and the changed root becomes a new
// document version. Nothing is re-parsed between diagnostics.
//
// On top of that sit BatchFixer (one provider across a document, project or
// solution) and Apply (registry-driven selection used by `mend fix`).
package fix
