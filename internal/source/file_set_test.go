package source

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.mnd", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.mnd")
	if !exists || latestID != id1 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id1, latestID, exists)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("test.mnd", []byte("hello universe"), FileDerived)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, _ = fs.GetLatest("test.mnd")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content 'hello world', got %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("Expected second file content 'hello universe', got %q", got)
	}
	if fs.Get(id2).Flags&FileDerived == 0 {
		t.Error("Expected FileDerived flag on the second version")
	}
}

func TestGetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if f := fs.Get(42); f != nil {
		t.Fatalf("expected nil for unknown id, got %+v", f)
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.mnd", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestCRLFNormalization(t *testing.T) {
	normalized, changed := normalizeCRLF([]byte("a\r\nb\r\nc\r"))
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\nc\r" {
		t.Errorf("unexpected normalized content %q", string(normalized))
	}

	_, changed = normalizeCRLF([]byte("plain\n"))
	if changed {
		t.Error("content without CR must be left untouched")
	}
}

func TestBOMRemoval(t *testing.T) {
	withoutBOM, hadBOM := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x', '\n'})
	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(withoutBOM) != "x\n" {
		t.Errorf("Expected content without BOM %q, got %q", "x\n", string(withoutBOM))
	}
}

// TestResolveUTF8 проверяет разрешение позиций в UTF-8 тексте
func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.mnd", []byte("α\nb"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("unexpected start %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("unexpected end %+v", end)
	}

	start, _ = fs.Resolve(Span{File: id, Start: 3, End: 4})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("unexpected second-line start %+v", start)
	}
}

func TestResolveLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.mnd", []byte("a;\nb;\n\nlet c;"))
	noNewline := fs.AddVirtual("flat.mnd", []byte("abc"))

	tests := []struct {
		name string
		file FileID
		off  uint32
		want LineCol
	}{
		{"file start", id, 0, LineCol{Line: 1, Col: 1}},
		{"newline ends its line", id, 2, LineCol{Line: 1, Col: 3}},
		{"second line start", id, 3, LineCol{Line: 2, Col: 1}},
		{"second line middle", id, 4, LineCol{Line: 2, Col: 2}},
		{"empty line", id, 6, LineCol{Line: 3, Col: 1}},
		{"last line", id, 11, LineCol{Line: 4, Col: 5}},
		{"end of file", id, 13, LineCol{Line: 4, Col: 7}},
		{"no newlines", noNewline, 2, LineCol{Line: 1, Col: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := fs.Resolve(Span{File: tt.file, Start: tt.off, End: tt.off})
			if got != tt.want {
				t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
		})
	}
}

func TestGetLineAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.mnd", []byte("let a = 1;\nlet b = a + 2;\n"))
	file := fs.Get(id)

	if got := file.GetLine(2); got != "let b = a + 2;" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := file.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
	if got := file.Text(Span{File: id, Start: 4, End: 5}); got != "a" {
		t.Errorf("Text = %q, want %q", got, "a")
	}
	if got := file.Text(Span{File: id, Start: 19, End: 500}); got != "a + 2;\n" {
		t.Errorf("clamped Text = %q", got)
	}
}

func TestLoadCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.mnd")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", string(file.Content))
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag to be set")
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("Expected FileHadBOM flag to be set")
	}
}

func TestConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fs.AddVirtual("same.mnd", []byte{byte('a' + i%26)})
			if fs.Get(id) == nil {
				t.Errorf("file %d vanished", id)
			}
		}(i)
	}
	wg.Wait()
	if fs.Len() != 32 {
		t.Fatalf("expected 32 versions, got %d", fs.Len())
	}
}
