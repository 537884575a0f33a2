package driver

import (
	"context"

	"fortio.org/safecast"

	"mend/internal/diag"
	"mend/internal/parser"
	"mend/internal/source"
	"mend/internal/syntax"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *syntax.Tree
	Bag     *diag.Bag
}

// Parse loads one file and parses it; used by `mend tree`.
func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	res, err := parser.ParseFile(ctx, file, parser.Options{
		Reporter:  diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})
	if err != nil {
		return nil, err
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    res.Tree,
		Bag:     bag,
	}, nil
}
