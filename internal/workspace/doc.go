// Package workspace models immutable snapshots of source documents.
//
// A Solution holds projects, a Project holds documents, and a Document is
// one version of one file. Nothing here is ever modified in place:
// Document.WithSyntaxRoot and Solution.WithDocument return new values that
// share everything unchanged with the receiver. Every version of a file is
// registered in the shared source.FileSet so diagnostics of any version can
// be rendered.
package workspace
