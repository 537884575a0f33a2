package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mend/internal/diag"
	"mend/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и фиксы.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := prettyPrinter{w: w, fs: fs, opts: opts, pal: newPalette(opts.Color)}
	for _, d := range bag.Items() {
		if d.Unnecessary() && !opts.ShowUnnecessary {
			continue
		}
		p.diagnostic(d)
	}
}

type palette struct {
	err, warn, info, code, gutter, caret, note, add, del *color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
		add:    mk(color.FgGreen),
		del:    mk(color.FgRed),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

type prettyPrinter struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts
	pal  palette
}

func (p *prettyPrinter) location(sp source.Span) string {
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(p.fs, sp.File, p.opts.PathMode), start.Line, start.Col)
}

func (p *prettyPrinter) diagnostic(d diag.Diagnostic) {
	sev := p.pal.severity(d.Severity)
	fmt.Fprintf(p.w, "%s: %s %s: %s\n",
		p.location(d.Primary),
		sev.Sprint(d.Severity.String()),
		p.pal.code.Sprint(d.Code.ID()),
		d.Message,
	)
	p.snippet(d.Primary)

	if p.opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(p.w, "  %s %s: %s\n", p.pal.note.Sprint("note:"), p.location(n.Span), n.Msg)
		}
	}
	if p.opts.ShowFixes && p.opts.Fixes != nil {
		for i, h := range p.opts.Fixes(d) {
			fmt.Fprintf(p.w, "  fix #%d: %s", i+1, h.Title)
			if h.Applicability != "" {
				fmt.Fprintf(p.w, " [%s]", h.Applicability)
			}
			if h.ID != "" {
				fmt.Fprintf(p.w, " id=%s", h.ID)
			}
			fmt.Fprintln(p.w)
			if p.opts.ShowPreview && h.After != "" {
				p.preview(h)
			}
		}
	}
}

func (p *prettyPrinter) preview(h FixHint) {
	pv, err := buildFixPreview(h.Before, h.After)
	if err != nil {
		return
	}
	fmt.Fprintln(p.w, "    preview:")
	for _, l := range pv.before {
		fmt.Fprintf(p.w, "      %s\n", p.pal.del.Sprint("- "+p.clip(l)))
	}
	for _, l := range pv.after {
		fmt.Fprintf(p.w, "      %s\n", p.pal.add.Sprint("+ "+p.clip(l)))
	}
}

// snippet печатает строки спана с контекстом и подчёркивание под первой
func (p *prettyPrinter) snippet(sp source.Span) {
	f := p.fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(sp)
	ctxLines := uint32(max(p.opts.Context, 0))
	first := start.Line - min(start.Line-1, ctxLines)
	last := end.Line + ctxLines
	lineCount := uint32(len(f.LineIdx) + 1)
	if last > lineCount {
		last = lineCount
	}
	width := len(strconv.FormatUint(uint64(last), 10))
	empty := strings.Repeat(" ", width)

	for n := first; n <= last; n++ {
		text := f.GetLine(n)
		if n == last && n > end.Line && text == "" {
			break
		}
		fmt.Fprintf(p.w, " %s %s\n", p.pal.gutter.Sprintf("%*d |", width, n), p.clip(expandTabs(text)))
		if n != start.Line {
			continue
		}
		// колонки в байтах; ширину считаем по отображению
		col := min(int(start.Col-1), len(text))
		stop := len(text)
		if end.Line == start.Line {
			stop = min(max(int(end.Col-1), col), len(text))
		}
		pad := runewidth.StringWidth(expandTabs(text[:col]))
		span := runewidth.StringWidth(expandTabs(text[col:stop]))
		mark := "^"
		if span > 1 {
			mark += strings.Repeat("~", span-1)
		}
		fmt.Fprintf(p.w, " %s %s%s\n", p.pal.gutter.Sprintf("%s |", empty), strings.Repeat(" ", pad), p.pal.caret.Sprint(mark))
	}
}

func (p *prettyPrinter) clip(s string) string {
	if p.opts.Width == 0 || runewidth.StringWidth(s) <= int(p.opts.Width) {
		return s
	}
	return runewidth.Truncate(s, int(p.opts.Width), "…")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
