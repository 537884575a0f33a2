package lexer

import (
	"mend/internal/diag"
	"mend/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\r' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment
// - /* ... */ -> TriviaBlockComment (вложенные; незакрытый — репорт и обрезаем на EOF)
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case isSpace(b):
			for isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.scanComment():
			// уже в hold
		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(k token.TriviaKind, start Mark) {
	lx.hold = append(lx.hold, token.Trivia{
		Kind: k,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.TextFrom(start),
	})
}

// scanComment съедает "//..." или "/*...*/"; иначе откатывается и
// возвращает false, чтобы '/' разобрался как оператор.
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()

	if b1 == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	}

	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if c0, c1, ok := lx.cursor.Peek2(); ok {
			switch {
			case c0 == '/' && c1 == '*':
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
				continue
			case c0 == '*' && c1 == '/':
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
				continue
			}
		}
		lx.cursor.Bump()
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(token.TriviaBlockComment, start)
	return true
}
