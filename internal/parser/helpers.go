package parser

import (
	"strconv"

	"mend/internal/diag"
	"mend/internal/source"
	"mend/internal/syntax"
	"mend/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// afterLast — пустой span сразу после последнего съеденного токена;
// туда же встанет Missing-лист в дереве.
func (p *Parser) afterLast() source.Span {
	return source.Span{File: p.file.ID, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// expectLeaf — ожидаем конкретный токен. Если нет — репортим и возвращаем
// Missing-лист, ничего не съедая.
func (p *Parser) expectLeaf(k token.Kind, code diag.Code, msg string) *syntax.Node {
	if p.at(k) {
		return syntax.Leaf(p.advance())
	}
	p.report(code, diag.SevError, p.afterLast(), msg)
	return syntax.Missing(k)
}

// репортует ошибку в позиции после последнего токена
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.afterLast(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if p.opts.Enough() {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg).Emit()
	return true
}

func (p *Parser) describePeek() string {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.StringLit:
		return tok.Kind.String() + " " + strconv.Quote(tok.Text)
	}
	return strconv.Quote(tok.Text)
}
