package parser

import (
	"github.com/thornlang/thornc/internal/ast"
	"github.com/thornlang/thornc/internal/token"
)

// parseStatement dispatches on the current token per the §4.1 grammar:
//
//	stmt = block | var | proc | iterator | object | while | for
//	     | "break" | "continue" | return | yield | expr
func (p *Parser) parseStatement() *ast.Node {
	var stmt *ast.Node
	switch p.cur.Kind {
	case token.LBRACE:
		stmt = p.parseBlock()
	case token.KW_VAR, token.KW_LET:
		stmt = p.parseVarDecl()
	case token.KW_PROC:
		stmt = p.parseProcDecl()
	case token.KW_ITERATOR:
		stmt = p.parseIteratorDecl()
	case token.KW_OBJECT:
		stmt = p.parseObjectDecl()
	case token.KW_WHILE:
		stmt = p.parseWhile()
	case token.KW_FOR:
		stmt = p.parseFor()
	case token.KW_BREAK:
		t := p.cur
		p.next()
		stmt = ast.NewBreakStmt(p.file, t.Line, t.Col)
	case token.KW_CONTINUE:
		t := p.cur
		p.next()
		stmt = ast.NewContinueStmt(p.file, t.Line, t.Col)
	case token.KW_RETURN:
		stmt = p.parseReturn()
	case token.KW_YIELD:
		stmt = p.parseYield()
	default:
		t := p.cur
		expr := p.parseExpression(token.LOWEST)
		stmt = ast.NewExprStmt(p.file, t.Line, t.Col, expr)
	}
	// Blocks and declarations with a block body (proc/iterator/object/
	// while/for) are self-terminating; everything else needs an explicit
	// boundary.
	switch stmt.Kind {
	case ast.KBlock, ast.KProcDecl, ast.KIteratorDecl, ast.KObjectDecl,
		ast.KWhileStmt, ast.KForStmt:
		return stmt
	}
	p.requireStatementEnd()
	return stmt
}

// parseBlock parses `{ stmt* }`, allowing blank lines and a trailing
// expression-as-last-statement (the generator decides whether the block
// is used in expression or statement position).
func (p *Parser) parseBlock() *ast.Node {
	t := p.expect(token.LBRACE)
	p.skipTerminators()
	var stmts []*ast.Node
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmts = append(stmts, p.parseStatement())
		p.skipTerminators()
	}
	p.expect(token.RBRACE)
	return ast.NewBlock(p.file, t.Line, t.Col, stmts)
}

// parseVarDecl parses `("var"|"let") identDefs` (§4.1).
func (p *Parser) parseVarDecl() *ast.Node {
	t := p.cur
	isLet := p.curIs(token.KW_LET)
	p.next()

	var names []string
	names = append(names, p.expect(token.IDENT).Lexeme)
	for p.curIs(token.COMMA) {
		p.next()
		names = append(names, p.expect(token.IDENT).Lexeme)
	}

	var typeAnn *ast.Node
	if p.curIs(token.COLON) {
		p.next()
		typeAnn = p.parseTypeExpr()
	}

	var value *ast.Node
	if p.curIs(token.ASSIGN) {
		p.next()
		p.skipNewlines()
		value = p.parseExpression(token.LOWEST)
	}

	return ast.NewVarDecl(p.file, t.Line, t.Col, isLet, names, typeAnn, value)
}

func (p *Parser) parseGenericParams() []string {
	if !p.curIs(token.LBRACKET) {
		return nil
	}
	p.next()
	var names []string
	for !p.curIs(token.RBRACKET) {
		names = append(names, p.expect(token.IDENT).Lexeme)
		if p.curIs(token.COLON) { // optional constraint: T: SomeTrait
			p.next()
			p.parseTypeExpr()
		}
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACKET)
	return names
}

func (p *Parser) parseParams() []*ast.Node {
	p.expect(token.LPAREN)
	var params []*ast.Node
	for !p.curIs(token.RPAREN) {
		name := p.expect(token.IDENT)
		p.expect(token.COLON)
		typ := p.parseTypeExpr()
		params = append(params, ast.NewParam(p.file, name.Line, name.Col, name.Lexeme, typ))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseProcDecl parses `proc name[Gs](params) -> Ret { body }` (§4.5
// "Procedures").
func (p *Parser) parseProcDecl() *ast.Node {
	t := p.cur
	p.expect(token.KW_PROC)
	name := p.expect(token.IDENT)
	generics := p.parseGenericParams()
	params := p.parseParams()
	var ret *ast.Node
	if p.curIs(token.OPERATOR) && p.cur.Lexeme == "->" {
		p.next()
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()
	return ast.NewProcDecl(p.file, t.Line, t.Col, name.Lexeme, generics, params, ret, body)
}

// parseIteratorDecl parses `iterator name[Gs](params) -> YieldTy { body }`
// (§4.5 "Iterators"): declaration only, no chunk emitted here.
func (p *Parser) parseIteratorDecl() *ast.Node {
	t := p.cur
	p.expect(token.KW_ITERATOR)
	name := p.expect(token.IDENT)
	generics := p.parseGenericParams()
	params := p.parseParams()
	var yieldTy *ast.Node
	if p.curIs(token.OPERATOR) && p.cur.Lexeme == "->" {
		p.next()
		yieldTy = p.parseTypeExpr()
	}
	if yieldTy == nil {
		p.fail(p.cur, "iterator %q must declare a yield type", name.Lexeme)
	}
	body := p.parseBlock()
	return ast.NewIteratorDecl(p.file, t.Line, t.Col, name.Lexeme, generics, params, yieldTy, body)
}

// parseObjectDecl parses `object Name[Gs] { field, field: Type, ... }`
// (§4.5 "Objects").
func (p *Parser) parseObjectDecl() *ast.Node {
	t := p.cur
	p.expect(token.KW_OBJECT)
	name := p.expect(token.IDENT)
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	p.skipTerminators()
	var fields []*ast.Node
	var pending []token.Token
	for !p.curIs(token.RBRACE) {
		id := p.expect(token.IDENT)
		pending = append(pending, id)
		if p.curIs(token.COMMA) {
			p.next()
			p.skipTerminators()
			continue
		}
		p.expect(token.COLON)
		typ := p.parseTypeExpr()
		for _, nameTok := range pending {
			fields = append(fields, ast.NewField(p.file, nameTok.Line, nameTok.Col, nameTok.Lexeme, typ))
		}
		pending = nil
		if p.curIs(token.COMMA) {
			p.next()
		}
		p.skipTerminators()
	}
	p.expect(token.RBRACE)
	return ast.NewObjectDecl(p.file, t.Line, t.Col, name.Lexeme, generics, fields)
}

func (p *Parser) parseWhile() *ast.Node {
	t := p.cur
	p.expect(token.KW_WHILE)
	cond := p.parseExpression(token.LOWEST)
	body := p.parseBlock()
	return ast.NewWhileStmt(p.file, t.Line, t.Col, cond, body)
}

// parseFor parses `for x in iterExpr(args) { body }` (§4.6).
func (p *Parser) parseFor() *ast.Node {
	t := p.cur
	p.expect(token.KW_FOR)
	loopVar := p.expect(token.IDENT)
	p.expect(token.KW_IN)
	iterExpr := p.parseExpression(token.LOWEST)
	if iterExpr.Kind != ast.KCall {
		p.fail(t, "for-loop source must be an iterator call")
	}
	body := p.parseBlock()
	return ast.NewForStmt(p.file, t.Line, t.Col, loopVar.Lexeme, iterExpr, body)
}

func (p *Parser) parseReturn() *ast.Node {
	t := p.cur
	p.next()
	var value *ast.Node
	if !p.atStatementEnd() {
		value = p.parseExpression(token.LOWEST)
	}
	return ast.NewReturnStmt(p.file, t.Line, t.Col, value)
}

func (p *Parser) parseYield() *ast.Node {
	t := p.cur
	p.next()
	value := p.parseExpression(token.LOWEST)
	return ast.NewYieldStmt(p.file, t.Line, t.Col, value)
}

func (p *Parser) atStatementEnd() bool {
	switch p.cur.Kind {
	case token.NEWLINE, token.SEMI, token.EOF, token.RBRACE:
		return true
	}
	return false
}
