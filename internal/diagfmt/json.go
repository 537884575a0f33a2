package diagfmt

import (
	"encoding/json"
	"io"

	"mend/internal/diag"
	"mend/internal/observ"
	"mend/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Applicability string   `json:"applicability,omitempty"`
	BeforeLines   []string `json:"before_lines,omitempty"`
	AfterLines    []string `json:"after_lines,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity   string            `json:"severity"`
	Code       string            `json:"code"`
	Rule       string            `json:"rule,omitempty"`
	Message    string            `json:"message"`
	Location   LocationJSON      `json:"location"`
	Tags       string            `json:"tags,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Notes      []NoteJSON        `json:"notes,omitempty"`
	Fixes      []FixJSON         `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Timings     *observ.Report   `json:"timings,omitempty"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(fs, span.File, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}

	// Добавляем позиции строк/колонок если требуется
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}

	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}
	diagnostics := make([]DiagnosticJSON, 0, maxItems)

	for _, d := range items[:maxItems] {
		diagJSON := DiagnosticJSON{
			Severity:   d.Severity.String(),
			Code:       d.Code.ID(),
			Rule:       d.Code.Rule(),
			Message:    d.Message,
			Location:   makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
			Tags:       d.Tags.String(),
			Properties: d.Properties,
		}

		if opts.IncludeNotes && len(d.Notes) > 0 {
			diagJSON.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				diagJSON.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}

		if opts.IncludeFixes && opts.Fixes != nil {
			for _, h := range opts.Fixes(d) {
				fixJSON := FixJSON{
					ID:            h.ID,
					Title:         h.Title,
					Applicability: h.Applicability,
				}
				if opts.IncludePreviews && h.After != "" {
					if preview, err := buildFixPreview(h.Before, h.After); err == nil {
						fixJSON.BeforeLines = preview.before
						fixJSON.AfterLines = preview.after
					}
				}
				diagJSON.Fixes = append(diagJSON.Fixes, fixJSON)
			}
		}

		diagnostics = append(diagnostics, diagJSON)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Timings:     opts.Timings,
	}
}

// JSON форматирует диагностики в JSON формат.
// Выводит массив диагностик с местоположением, заметками и исправлениями.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}

// Short prints one line per diagnostic: "sev CODE path:line:col message".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
