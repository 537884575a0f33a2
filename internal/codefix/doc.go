// Package codefix holds the fix providers for the built-in lint rules and
// for missing semicolons.
//
// Providers register ReplaceNodeWith callbacks and recompute the rewrite
// from the node they are handed, so nested findings in one batch compose.
// A finding whose rewrite would drop a comment is left alone.
package codefix
