package workspace

import (
	"context"
	"fmt"
	"sync"

	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/syntax"
)

// DocumentID is the slash-separated path of a document relative to its
// project root; it stays the same across versions.
type DocumentID string

// ProjectInfo is shared by every document of a project.
type ProjectInfo struct {
	Name   string
	Root   string
	Config ConfigView
}

// ConfigView is the part of the project config documents need.
type ConfigView struct {
	MaxParseErrors uint
}

type Document struct {
	id       DocumentID
	fs       *source.FileSet
	fileID   source.FileID
	project  *ProjectInfo
	version  int
	encoding source.FileFlags // HadBOM / NormalizedCRLF исходного файла

	mu         sync.Mutex
	tree       *syntax.Tree
	parseDiags []diag.Diagnostic
	parsed     bool // parseDiags посчитаны
}

// NewDocument wraps an already registered file.
func NewDocument(fs *source.FileSet, fileID source.FileID, id DocumentID, info *ProjectInfo) *Document {
	d := &Document{id: id, fs: fs, fileID: fileID, project: info}
	if f := fs.Get(fileID); f != nil {
		d.encoding = f.Flags & (source.FileHadBOM | source.FileNormalizedCRLF)
	}
	return d
}

func (d *Document) ID() DocumentID           { return d.id }
func (d *Document) FileID() source.FileID    { return d.fileID }
func (d *Document) FileSet() *source.FileSet { return d.fs }
func (d *Document) Project() *ProjectInfo    { return d.project }

// Version counts derived snapshots: 0 for the loaded file.
func (d *Document) Version() int { return d.version }

func (d *Document) File() *source.File {
	return d.fs.Get(d.fileID)
}

func (d *Document) Path() string {
	if f := d.File(); f != nil {
		return f.Path
	}
	return string(d.id)
}

func (d *Document) Text() string {
	if f := d.File(); f != nil {
		return string(f.Content)
	}
	return ""
}

// SyntaxTree returns the tree, parsing on first use. A cancelled parse is
// not cached.
func (d *Document) SyntaxTree(ctx context.Context) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("workspace: %s: %w", d.id, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		return d.tree, nil
	}
	if err := d.parseLocked(ctx); err != nil {
		return nil, err
	}
	return d.tree, nil
}

// ParseDiagnostics returns lexer and parser diagnostics of this version.
func (d *Document) ParseDiagnostics(ctx context.Context) ([]diag.Diagnostic, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.parsed {
		return d.parseDiags, nil
	}
	if err := d.parseLocked(ctx); err != nil {
		return nil, err
	}
	return d.parseDiags, nil
}

func (d *Document) parseLocked(ctx context.Context) error {
	f := d.File()
	if f == nil {
		return fmt.Errorf("workspace: %s: file #%d is not registered", d.id, d.fileID)
	}
	bag := diag.NewBag(0)
	opts := parser.Options{Reporter: diag.BagReporter{Bag: bag}}
	if d.project != nil {
		opts.MaxErrors = d.project.Config.MaxParseErrors
	}
	res, err := parser.ParseFile(ctx, f, opts)
	if err != nil {
		return fmt.Errorf("workspace: parse %s: %w", d.id, err)
	}
	if d.tree == nil {
		d.tree = res.Tree
	}
	d.parseDiags = bag.Items()
	d.parsed = true
	return nil
}

// WithSyntaxRoot returns a new version of the document whose tree is root.
// The text is rendered from root and registered as a new file version; the
// receiver is left untouched.
func (d *Document) WithSyntaxRoot(root *syntax.Node) *Document {
	text := root.Text()
	flags := source.FileDerived
	if f := d.File(); f != nil {
		flags |= f.Flags & source.FileVirtual
	}
	id := d.fs.Add(d.Path(), []byte(text), flags)
	return &Document{
		id:       d.id,
		fs:       d.fs,
		fileID:   id,
		project:  d.project,
		version:  d.version + 1,
		encoding: d.encoding,
		tree:     syntax.NewTree(id, root),
	}
}

// WithText returns a new version with the given text; it is parsed lazily.
func (d *Document) WithText(text string) *Document {
	flags := source.FileDerived
	if f := d.File(); f != nil {
		flags |= f.Flags & source.FileVirtual
	}
	id := d.fs.Add(d.Path(), []byte(text), flags)
	return &Document{
		id:       d.id,
		fs:       d.fs,
		fileID:   id,
		project:  d.project,
		version:  d.version + 1,
		encoding: d.encoding,
	}
}

// IsVirtual reports documents that have no file on disk.
func (d *Document) IsVirtual() bool {
	f := d.File()
	return f != nil && f.Flags&source.FileVirtual != 0
}
