package driver

import (
	"crypto/sha256"

	"mend/internal/project"
	"mend/internal/source"
)

// cacheSchema меняется вместе с форматом кешируемых диагностик
const cacheSchema = "mend-diag-v1"

// documentKey: H(content || rules || salt), где salt — схема, стадия и набор
// анализаторов. Пост-обработка (IgnoreWarnings и т.п.) в ключ не входит.
func documentKey(f *source.File, opts *Options) project.Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(cacheSchema))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(opts.stage()))
	for _, a := range opts.analyzers() {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(a.Name()))
	}
	var salt project.Digest
	copy(salt[:], h.Sum(nil))
	return project.Combine(project.Digest(f.Hash), opts.Rules.Digest(), salt)
}
