package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// languageSeeds cover every construct the parser and the providers know.
var languageSeeds = []string{
	"",
	"let x = 1;\n",
	"let x = (a + b) * c;\n",
	"let x = ((a));\n",
	"let y = !!!b;\n",
	"let z = a * 1 + 0 - 0;\n",
	"let t = a < b == false;\n",
	"let s = b == b;\nlet u = b != b;\n",
	"let x = 1\nlet y = 2\n",
	"f(a, (b), !!c);\n",
	"// comment\nlet x = (a /* keep */);\n",
	"let s = \"str\" + \"ing\";\n",
	"let имя = -(-x);\n",
	"let = = ;;\n)(\n",
	"let x = (\n",
	"\"unterminated\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.mnd файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".mnd" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
