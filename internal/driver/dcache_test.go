package driver

import (
	"os"
	"path/filepath"
	"testing"

	"mend/internal/diag"
	"mend/internal/lint"
	"mend/internal/project"
	"mend/internal/source"
)

func TestDocumentKey(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.Get(fs.AddVirtual("a.mnd", []byte("a + 0;\n")))
	b := fs.Get(fs.AddVirtual("b.mnd", []byte("a + 0;\n")))
	c := fs.Get(fs.AddVirtual("c.mnd", []byte("a + 1;\n")))

	base := &Options{}
	if documentKey(a, base) != documentKey(b, base) {
		t.Fatal("same content, different key")
	}
	if documentKey(a, base) == documentKey(c, base) {
		t.Fatal("different content, same key")
	}
	variants := map[string]*Options{
		"stage":     {Stage: StageSyntax},
		"rules":     {Rules: project.RuleSet{Disabled: map[diag.Code]bool{diag.LintIdentityArith: true}}},
		"analyzers": {Analyzers: []*lint.Analyzer{lint.IdentityArith}},
	}
	for name, o := range variants {
		if documentKey(a, o) == documentKey(a, base) {
			t.Errorf("%s does not change the key", name)
		}
	}
	// пост-обработка в ключ не входит
	if documentKey(a, &Options{IgnoreWarnings: true, MaxDiagnostics: 3}) != documentKey(a, base) {
		t.Error("post-processing changed the key")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dc, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ds := []diag.Diagnostic{
		diag.NewWarning(diag.LintRedundantParens, source.Span{File: 7, Start: 0, End: 3}, "redundant").
			WithNote(source.Span{File: 7, Start: 1, End: 2}, "inner").
			WithProperty("k", "v"),
		diag.New(diag.SevInfo, diag.LintRedundantParens, source.Span{File: 7, Start: 0, End: 1}, "paren").
			WithTag(diag.TagUnnecessary),
	}
	var key project.Digest
	key[0] = 0xab

	var miss DiskPayload
	if ok, err := dc.Get(key, &miss); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := dc.Put(key, diagnosticsToDiskPayload("a.mnd", ds)); err != nil {
		t.Fatal(err)
	}
	var got DiskPayload
	ok, err := dc.Get(key, &got)
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	back := diskPayloadToDiagnostics(&got, 3)
	if len(back) != 2 {
		t.Fatalf("len = %d", len(back))
	}
	d := back[0]
	if d.Primary != (source.Span{File: 3, Start: 0, End: 3}) || d.Message != "redundant" || d.Severity != diag.SevWarning {
		t.Fatalf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Span.File != 3 || d.Notes[0].Msg != "inner" || d.Property("k") != "v" {
		t.Fatalf("notes/properties = %+v %v", d.Notes, d.Properties)
	}
	if !back[1].Unnecessary() {
		t.Fatal("tag lost")
	}

	// битый файл — ошибка, а не паника
	if err := os.WriteFile(dc.pathFor(key), []byte{0xc1, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}
	if ok, err := dc.Get(key, &got); ok || err == nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}

	if err := dc.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dc.Dir(), "diags")); !os.IsNotExist(err) {
		t.Fatalf("diags dir survived DropAll: %v", err)
	}
}

func TestMemCacheRebinds(t *testing.T) {
	mem := NewMemCache(1)
	var key project.Digest
	mem.Put(key, []diag.Diagnostic{diag.NewWarning(diag.LintSelfCompare, source.Span{File: 1, Start: 2, End: 4}, "x")})
	got, ok := mem.Get(key, 9)
	if !ok || got[0].Primary.File != 9 {
		t.Fatalf("got %+v, %v", got, ok)
	}
	again, _ := mem.Get(key, 1)
	if again[0].Primary.File != 1 {
		t.Fatal("Get mutated the cached entry")
	}
	var nilCache *MemCache
	if _, ok := nilCache.Get(key, 0); ok {
		t.Fatal("nil cache hit")
	}
}
