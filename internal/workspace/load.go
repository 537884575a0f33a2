package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mend/internal/source"
)

// Ext is the source file extension.
const Ext = ".mnd"

// LoadOptions control directory loading.
type LoadOptions struct {
	Name           string
	Exclude        func(rel string) bool
	MaxParseErrors uint
}

// Load walks root for *.mnd files and builds a one-project solution. Hidden
// directories are skipped. When root is a file only that file is loaded.
func Load(ctx context.Context, root string, opts LoadOptions) (*Solution, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}

	base := abs
	var paths []string
	if info.IsDir() {
		paths, err = collect(ctx, abs, opts.Exclude)
		if err != nil {
			return nil, err
		}
	} else {
		base = filepath.Dir(abs)
		paths = []string{abs}
	}
	return LoadFiles(ctx, base, paths, opts)
}

// LoadFiles loads the given files into a one-project solution rooted at base.
func LoadFiles(ctx context.Context, base string, paths []string, opts LoadOptions) (*Solution, error) {
	fset := source.NewFileSetWithBase(base)
	name := opts.Name
	if name == "" {
		name = filepath.Base(base)
	}
	pinfo := &ProjectInfo{Name: name, Root: base, Config: ConfigView{MaxParseErrors: opts.MaxParseErrors}}

	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("workspace: load: %w", err)
		}
		id, err := fset.Load(p)
		if err != nil {
			return nil, fmt.Errorf("workspace: %w", err)
		}
		docs = append(docs, NewDocument(fset, id, docID(base, p), pinfo))
	}
	return NewSolution(fset, NewProject(pinfo, docs...)), nil
}

func collect(ctx context.Context, root string, exclude func(string) bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != Ext {
			return nil
		}
		if exclude != nil && exclude(string(docID(root, path))) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

func docID(base, path string) DocumentID {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	return DocumentID(filepath.ToSlash(rel))
}

// FromText builds a single-document solution from in-memory text; used by
// tests and by stdin input.
func FromText(name, text string) (*Solution, *Document) {
	fset := source.NewFileSet()
	id := fset.AddVirtual(name, []byte(text))
	pinfo := &ProjectInfo{Name: "virtual"}
	doc := NewDocument(fset, id, DocumentID(name), pinfo)
	return NewSolution(fset, NewProject(pinfo, doc)), doc
}
