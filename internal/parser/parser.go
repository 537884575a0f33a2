package parser

import (
	"context"
	"fmt"
	"slices"

	"mend/internal/diag"
	"mend/internal/lexer"
	"mend/internal/source"
	"mend/internal/syntax"
	"mend/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *syntax.Tree
	Bag  *diag.Bag // заполнен, если Reporter — BagReporter
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile разбирает файл целиком. Дерево строится всегда, даже при
// синтаксических ошибках; ошибка возвращается только при отмене ctx.
func ParseFile(ctx context.Context, file *source.File, opts Options) (Result, error) {
	p := Parser{
		lx:       lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}

	root, err := p.parseFile(ctx)
	if err != nil {
		return Result{}, err
	}
	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case diag.BagReporter:
		bag = br.Bag
	case *diag.BagReporter:
		bag = br.Bag
	}
	return Result{Tree: syntax.NewTree(file.ID, root), Bag: bag}, nil
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseFile — основной цикл верхнего уровня: пока не EOF — parseStmt.
func (p *Parser) parseFile(ctx context.Context) (*syntax.Node, error) {
	var stmts []*syntax.Node
	for !p.at(token.EOF) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("parser: %s: %w", p.file.Path, err)
		}
		stmts = append(stmts, p.parseStmt())
	}
	stmts = append(stmts, syntax.Leaf(p.advance()))
	return &syntax.Node{Kind: syntax.KindFile, Children: stmts}, nil
}

// parseStmt всегда съедает хотя бы один токен.
func (p *Parser) parseStmt() *syntax.Node {
	switch {
	case p.at(token.KwLet):
		return p.parseLet()
	case startsExpr(p.lx.Peek().Kind):
		expr := p.parseExpr(0)
		return &syntax.Node{Kind: syntax.KindExprStmt, Children: []*syntax.Node{expr, p.expectSemicolon()}}
	default:
		return p.parseErrorStmt()
	}
}

// let name = expr;
func (p *Parser) parseLet() *syntax.Node {
	kw := syntax.Leaf(p.advance())
	var name *syntax.Node
	if p.at(token.Ident) {
		name = syntax.Leaf(p.advance())
	} else {
		p.err(diag.SynExpectIdentifier, "expected identifier after 'let', got "+p.describePeek())
		name = &syntax.Node{Kind: syntax.KindName, Token: token.Token{Kind: token.Ident, Missing: true}}
	}
	assign := p.expectLeaf(token.Assign, diag.SynExpectAssign, "expected '=' in let statement")
	expr := p.parseExpr(0)
	return &syntax.Node{Kind: syntax.KindLet, Children: []*syntax.Node{kw, name, assign, expr, p.expectSemicolon()}}
}

// parseErrorStmt съедает токены до ';' включительно (или до начала
// следующего оператора) и оборачивает их в Error.
func (p *Parser) parseErrorStmt() *syntax.Node {
	first := p.lx.Peek()
	if first.Kind != token.Invalid {
		p.report(diag.SynUnexpectedToken, diag.SevError, first.Span, "unexpected "+p.describePeek())
	}
	var toks []*syntax.Node
	for {
		tok := p.advance()
		toks = append(toks, syntax.Leaf(tok))
		if tok.Kind == token.Semicolon || p.atOr(token.EOF, token.KwLet) {
			break
		}
	}
	return &syntax.Node{Kind: syntax.KindError, Children: toks}
}

func (p *Parser) expectSemicolon() *syntax.Node {
	return p.expectLeaf(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after statement")
}
