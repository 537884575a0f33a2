// Package fuzztests houses Go fuzz harnesses that exercise the pipeline a fix
// runs through (source -> lexer -> parser -> lint -> fix-all). Its goal is to
// smoke test robustness: no panics, no hangs, and trees that still print back
// the exact input.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и все провайдеры исправлений.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/lint,
// internal/fix, internal/codefix, internal/testkit.

package fuzztests
