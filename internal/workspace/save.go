package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mend/internal/source"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Encoded returns the document text in its on-disk encoding: the BOM and
// CRLF line endings removed at load time are restored.
func (d *Document) Encoded() []byte {
	data := []byte(d.Text())
	if d.encoding&source.FileNormalizedCRLF != 0 {
		data = bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n"))
	}
	if d.encoding&source.FileHadBOM != 0 {
		data = append(append([]byte{}, bom...), data...)
	}
	return data
}

// Save writes every document of s that differs from base. Files are
// replaced atomically and keep their mode. Virtual documents are skipped.
func (s *Solution) Save(ctx context.Context, base *Solution) ([]*Document, error) {
	var written []*Document
	for _, d := range s.ChangedDocuments(base) {
		if err := ctx.Err(); err != nil {
			return written, fmt.Errorf("workspace: save: %w", err)
		}
		if d.IsVirtual() {
			continue
		}
		if err := writeAtomic(d.Path(), d.Encoded()); err != nil {
			return written, fmt.Errorf("workspace: save %s: %w", d.id, err)
		}
		written = append(written, d)
	}
	return written, nil
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mend-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
