// Package parser implements the Thorn surface grammar: recursive descent
// for statements, a Pratt parser for expressions (§4.1). It mirrors the
// shape of the teacher's parser (funvibe-funxy/internal/parser): a
// prefix/infix function table keyed by token kind, driven by
// parseExpression(precedence).
package parser

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/diagnostics"
	"github.com/thornlang/thornc/internal/lexer"
	"github.com/thornlang/thornc/internal/token"
)

type prefixFn func() *ast.Node
type infixFn func(left *ast.Node) *ast.Node

// Parser holds one token of current/peek state plus the prefix/infix
// dispatch tables, following the teacher's table-driven Pratt shape.
type Parser struct {
	stream *lexer.TokenStream
	file   string

	cur  token.Token
	peek token.Token

	prefixFns map[token.Kind]prefixFn
	infixFns  map[token.Kind]infixFn
}

// abortParse is panicked with a *diagnostics.SyntaxError and recovered in
// Parse; the grammar has no error-recovery mode (§4.1 "Error reporting").
type abortParse struct{ err *diagnostics.SyntaxError }

func New(file string, stream *lexer.TokenStream) *Parser {
	p := &Parser{stream: stream, file: file}
	p.prefixFns = map[token.Kind]prefixFn{
		token.NUMBER:      p.parseNumberLit,
		token.STRING:      p.parseStringLit,
		token.KW_TRUE:     p.parseBoolLit,
		token.KW_FALSE:    p.parseBoolLit,
		token.KW_NULL:     p.parseNullLit,
		token.IDENT:       p.parseIdent,
		token.LPAREN:      p.parseGrouped,
		token.KW_IF:       p.parseIfExpr,
		token.KW_PROC:     p.parseProcLit,
		token.OPERATOR:    p.parsePrefixOp,
	}
	p.infixFns = map[token.Kind]infixFn{
		token.OPERATOR: p.parseInfixOp,
		token.ASSIGN:   p.parseAssign,
		token.LPAREN:   p.parseCall,
		token.LBRACKET: p.parseIndexOrGeneric,
		token.DOT:      p.parseDot,
		token.COLON:    p.parseColonExpr,
	}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.stream.Next()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) fail(t token.Token, format string, args ...any) {
	panic(abortParse{diagnostics.NewSyntaxError(p.file, t.Line, t.Col, format, args...)})
}

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.curIs(k) {
		p.fail(p.cur, "expected %s, got %s %q", k, p.cur.Kind, p.cur.Lexeme)
	}
	t := p.cur
	p.next()
	return t
}

// skipNewlines advances over NEWLINE tokens; used where the grammar
// allows a statement/expression to continue onto the next physical line
// (after an opening bracket/brace, or after a binary operator).
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.next()
	}
}

func (p *Parser) curPrecedence() int {
	if p.cur.Kind == token.OPERATOR {
		return p.cur.Precedence
	}
	switch p.cur.Kind {
	case token.ASSIGN:
		return token.ASSIGNFAM
	case token.LPAREN, token.LBRACKET, token.DOT, token.COLON:
		return token.CALL
	}
	return token.LOWEST
}

// Parse runs the full program grammar and returns the root Program node.
// A SyntaxError aborts parsing immediately (§4.1); Parse converts the
// panic back into a returned error.
func (p *Parser) Parse() (prog *ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ap, ok := r.(abortParse); ok {
				err = ap.err
				return
			}
			panic(r)
		}
	}()
	return p.parseProgram(), nil
}

func (p *Parser) parseProgram() *ast.Node {
	line, col := p.cur.Line, p.cur.Col
	var stmts []*ast.Node
	p.skipTerminators()
	for !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		p.skipTerminators()
	}
	return ast.NewProgram(p.file, line, col, stmts)
}

func (p *Parser) skipTerminators() {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMI) {
		p.next()
	}
}

// requireStatementEnd enforces the line-sensitive statement boundary rule
// of §4.1: a statement must be followed by NEWLINE, SEMI, EOF, or a
// closing brace; anything else is a syntax error.
func (p *Parser) requireStatementEnd() {
	switch p.cur.Kind {
	case token.NEWLINE, token.SEMI, token.EOF, token.RBRACE:
		return
	default:
		p.fail(p.cur, "unterminated statement before %s %q", p.cur.Kind, p.cur.Lexeme)
	}
}

func (p *Parser) noPrefixFn(t token.Token) {
	p.fail(t, "no expression can start with %s %q", t.Kind, t.Lexeme)
}
